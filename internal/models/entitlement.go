// Package models содержит доменные структуры биллингового статуса пользователя.
package models

import "time"

// SubscriptionStatus статус подписки пользователя в биллинге.
// Доступ к закрытым ресурсам дает только StatusActive.
type SubscriptionStatus string

const (
	// StatusNone — пользователь никогда не начинал оплату. Нормальное состояние,
	// а не ошибка: отсутствие строки в entitlements трактуется именно так.
	StatusNone SubscriptionStatus = "none"
	// StatusActive — подписка оплачена и действует.
	StatusActive SubscriptionStatus = "active"
	// StatusCancelled — подписка отменена пользователем.
	StatusCancelled SubscriptionStatus = "cancelled"
	// StatusPastDue — очередной платеж не прошел.
	StatusPastDue SubscriptionStatus = "past_due"
)

// Active сообщает, дает ли статус доступ к закрытым ресурсам.
func (s SubscriptionStatus) Active() bool {
	return s == StatusActive
}

// Entitlement строка биллингового статуса, один-к-одному с пользователем.
// Изменяется только вебхуком платежного провайдера; приложение ее читает.
type Entitlement struct {
	UserUID            string
	SubscriptionStatus SubscriptionStatus
	UpdatedAt          time.Time
}
