// Package services содержит бизнес-логику биллинговых статусов пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thoughts2action/thoughts2action/internal/billing"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// EntitlementRepository определяет методы для работы с биллинговыми статусами в хранилище.
type EntitlementRepository interface {
	// GetEntitlementStatus возвращает статус пользователя; отсутствие строки — StatusNone.
	GetEntitlementStatus(ctx context.Context, userUID string) (models.SubscriptionStatus, error)
	// UpsertEntitlementStatus записывает статус пользователя.
	UpsertEntitlementStatus(ctx context.Context, userUID string, status models.SubscriptionStatus) error
	// GetUser возвращает зеркало пользователя для уведомлений.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// EventPublisher публикует сообщение для сервиса рассылки.
type EventPublisher interface {
	Publish(routingkey string, message any) error
}

// EntitlementService реализует чтение статусов для гейта и применение
// событий платежного вебхука.
type EntitlementService struct {
	repo      EntitlementRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewEntitlementService создает новый экземпляр EntitlementService.
// publisher может быть nil — тогда уведомления не публикуются.
func NewEntitlementService(repo EntitlementRepository, publisher EventPublisher, log *slog.Logger) *EntitlementService {
	return &EntitlementService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Status возвращает биллинговый статус пользователя. Контракт гейта.
func (s *EntitlementService) Status(ctx context.Context, userUID string) (models.SubscriptionStatus, error) {
	return s.repo.GetEntitlementStatus(ctx, userUID)
}

// statusForEvent таблица соответствия событий вебхука и статусов.
func statusForEvent(event string) (models.SubscriptionStatus, bool) {
	switch event {
	case billing.EventCheckoutCompleted:
		return models.StatusActive, true
	case billing.EventPaymentFailed:
		return models.StatusPastDue, true
	case billing.EventSubscriptionDeleted:
		return models.StatusCancelled, true
	default:
		return "", false
	}
}

// ApplyBillingEvent применяет событие платежного вебхука: обновляет статус
// пользователя и публикует уведомление для рассылки. Неизвестные события
// игнорируются без ошибки.
func (s *EntitlementService) ApplyBillingEvent(ctx context.Context, payload *billing.WebhookPayload) error {
	const op = "services.entitlement.ApplyBillingEvent"

	status, ok := statusForEvent(payload.Event)
	if !ok {
		s.log.Info("ignored billing event", slog.String("event", payload.Event))
		return nil
	}

	userUID := payload.Object.Metadata["user_uid"]
	if userUID == "" {
		return fmt.Errorf("%s: event %s carries no user_uid", op, payload.Event)
	}

	if err := s.repo.UpsertEntitlementStatus(ctx, userUID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("entitlement status updated",
		slog.String("user_uid", userUID), slog.String("status", string(status)))

	if s.publisher == nil {
		return nil
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for notification", sl.Err(err))
		return nil
	}
	message := models.NotificationInfo{
		Email:    user.Email,
		Username: user.Username,
		Status:   status,
	}
	if err := s.publisher.Publish("entitlement", message); err != nil {
		s.log.Warn("failed to publish entitlement notification", sl.Err(err))
	}
	return nil
}
