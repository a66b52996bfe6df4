// Package transcribe реализует HTTP-обработчик расшифровки аудиозаметок.
//
// Handler принимает multipart-запрос с аудиофайлом, отправляет его движку
// расшифровки и сохраняет текст заметкой с источником transcribed.
package transcribe

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/http/middlewarectx"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// maxAudioSize ограничивает размер аудиофайла (25 МБ, лимит движка).
const maxAudioSize = 25 << 20

// Service описывает интерфейс бизнес-логики расшифровки.
type Service interface {
	Transcribe(ctx context.Context, user *models.User, filename string, audio io.Reader) (int, string, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Расшифровать аудиозаметку
// @Description Принимает аудиофайл в поле file, расшифровывает его и создает заметку с источником transcribed.
// @Tags Thoughts
// @Accept  multipart/form-data
// @Produce  json
// @Param file formData file true "Аудиофайл"
// @Success 200 {object} map[string]any "ID заметки и текст расшифровки"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или слишком велик"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Движок расшифровки недоступен"
// @Router /transcriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.thought.transcribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioSize)
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("audio file missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("audio file missing"))
		return
	}
	defer func() { _ = file.Close() }()

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, text, err := h.service.Transcribe(r.Context(), user, header.Filename, file)
	if err != nil {
		log.Error("failed to transcribe audio", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not transcribe audio"))
		return
	}

	log.Info("audio transcribed", slog.Int("id", id), slog.String("filename", header.Filename))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"thought_id": id,
		"text":       text,
	}))
}
