// Package paymentwebhook реализует HTTP-обработчик платежного вебхука.
//
// Единственная незащищенная гейтом точка записи: подлинность запроса
// подтверждается HMAC-подписью тела в заголовке X-Api-Signature.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/thoughts2action/thoughts2action/internal/billing"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики применения событий биллинга.
type Service interface {
	ApplyBillingEvent(ctx context.Context, payload *billing.WebhookPayload) error
}

type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Платежный вебхук
// @Description Принимает события платежного провайдера и обновляет биллинговый статус пользователя. Запрос подписывается HMAC-SHA256 в заголовке X-Api-Signature.
// @Tags Payments
// @Accept  json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела"
// @Success 200 "Событие обработано"
// @Failure 400 "Некорректное тело"
// @Failure 401 "Невалидная подпись"
// @Failure 500 "Ошибка обработки"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !billing.VerifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload billing.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.ApplyBillingEvent(r.Context(), &payload); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Event), slog.String("object_id", payload.Object.ID))
	w.WriteHeader(http.StatusOK)
}
