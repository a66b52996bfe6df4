// Package paymentstatus реализует HTTP-обработчик статуса платежной сессии.
//
// Ресурс закрыт только аутентификацией, без проверки подписки: пользователь
// обращается сюда именно тогда, когда подписка еще не активна.
package paymentstatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/billing"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
)

// Service описывает интерфейс клиента платежного провайдера.
type Service interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус платежной сессии
// @Description Возвращает статус платежной сессии у провайдера. Доступен аутентифицированному пользователю без активной подписки.
// @Tags Payments
// @Produce  json
// @Param session_id query string true "ID платежной сессии"
// @Success 200 {object} map[string]any "Статус сессии"
// @Failure 400 {object} response.ErrorResponse "session_id отсутствует"
// @Failure 502 {object} response.ErrorResponse "Платежный провайдер недоступен"
// @Router /payments/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		log.Error("session_id missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("session_id is required"))
		return
	}

	session, err := h.service.GetCheckoutSession(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to get checkout session", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not get payment status"))
		return
	}

	log.Info("checkout session fetched",
		slog.String("session_id", sessionID), slog.String("status", session.Status))
	render.JSON(w, r, response.OKWithData(session))
}
