// Package read реализует HTTP-обработчик чтения заметки по ID.
package read

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

// Service описывает интерфейс бизнес-логики чтения заметки.
type Service interface {
	Read(ctx context.Context, user *models.User, id int) (*models.Thought, error)
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
// @Summary Прочитать заметку
// @Description Возвращает заметку по ID. Чужая заметка доступна только администратору.
// @Tags Thoughts
// @Produce  json
// @Param id path int true "ID заметки"
// @Success 200 {object} map[string]any "Заметка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Чужая заметка"
// @Failure 404 {object} response.ErrorResponse "Заметка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /thoughts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.thought.read"
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

	thought, err := h.service.Read(r.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, thoughtservice.ErrNotOwner):
			log.Info("access to foreign thought denied", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("thought not found"))
		default:
			log.Error("failed to read thought", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read thought"))
		}
		return
	}

	log.Info("thought read", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(thought))
}
