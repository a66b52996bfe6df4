// Package export реализует HTTP-обработчик выгрузки заметок в Google Sheets.
package export

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/http/middlewarectx"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Service описывает интерфейс бизнес-логики выгрузки.
type Service interface {
	Export(ctx context.Context, user *models.User) (int, error)
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
// @Summary Выгрузить заметки в таблицу
// @Description Дописывает заметки текущего пользователя в Google Sheets. Возвращает число добавленных строк.
// @Tags Thoughts
// @Produce  json
// @Success 200 {object} map[string]any "Число добавленных строк"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Сервис таблиц недоступен"
// @Router /exports [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.thought.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Export(r.Context(), user)
	if err != nil {
		log.Error("failed to export thoughts", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not export thoughts"))
		return
	}

	log.Info("thoughts exported", slog.Int("rows", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"exported_rows": count,
	}))
}
