// Package summarize реализует HTTP-обработчик суммаризации заметки.
//
// Handler отправляет текст заметки LLM-провайдеру, сохраняет полученное
// резюме со списком действий и возвращает его в JSON-формате.
package summarize

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/http/middlewarectx"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
	thoughtservice "github.com/thoughts2action/thoughts2action/internal/services/thought"
)

// Service описывает интерфейс бизнес-логики суммаризации.
type Service interface {
	Summarize(ctx context.Context, user *models.User, id int) (*models.ThoughtSummary, error)
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
// @Summary Суммаризировать заметку
// @Description Получает у LLM-провайдера резюме и список действий по тексту заметки и сохраняет их.
// @Tags Thoughts
// @Produce  json
// @Param id path int true "ID заметки"
// @Success 200 {object} map[string]any "Резюме и список действий"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Чужая заметка"
// @Failure 404 {object} response.ErrorResponse "Заметка не найдена"
// @Failure 502 {object} response.ErrorResponse "LLM-провайдер недоступен"
// @Router /thoughts/{id}/summarize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.thought.summarize"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid thought id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid thought id"))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summary, err := h.service.Summarize(r.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, thoughtservice.ErrNotOwner):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("thought not found"))
		default:
			log.Error("failed to summarize thought", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not summarize thought"))
		}
		return
	}

	log.Info("thought summarized", slog.Int("id", id),
		slog.Int("action_items", len(summary.ActionItems)))
	render.JSON(w, r, response.OKWithData(summary))
}
