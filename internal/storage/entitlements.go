package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// GetEntitlementStatus возвращает биллинговый статус пользователя.
// Отсутствие строки — нормальное состояние пользователя, никогда не
// начинавшего оплату: возвращается StatusNone без ошибки.
func (s *Storage) GetEntitlementStatus(ctx context.Context, userUID string) (models.SubscriptionStatus, error) {
	const op = "storage.GetEntitlementStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT subscription_status FROM entitlements WHERE user_uid = $1`
	var status models.SubscriptionStatus
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StatusNone, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// UpsertEntitlementStatus записывает биллинговый статус пользователя.
// Вызывается только обработчиком платежного вебхука.
func (s *Storage) UpsertEntitlementStatus(ctx context.Context, userUID string, status models.SubscriptionStatus) error {
	const op = "storage.UpsertEntitlementStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO entitlements (user_uid, subscription_status, updated_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET subscription_status = EXCLUDED.subscription_status, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, userUID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
