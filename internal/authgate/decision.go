package authgate

import (
	"net/http"
	"net/url"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Reason машиночитаемый код отказа. Пустое значение — доступ разрешен.
type Reason string

const (
	// ReasonUnauthenticated — запрос без валидных учетных данных.
	ReasonUnauthenticated Reason = "unauthenticated"
	// ReasonEntitlementRequired — пользователь аутентифицирован, но подписка не активна.
	ReasonEntitlementRequired Reason = "entitlement-required"
	// ReasonForbidden — роль пользователя не дает доступа к ресурсу.
	ReasonForbidden Reason = "forbidden"
	// ReasonUpstreamUnavailable — провайдер идентификации или хранилище недоступны.
	ReasonUpstreamUnavailable Reason = "upstream-unavailable"
)

// Decision итог вычисления гейта: либо allow, либо ровно один отказ с причиной.
// User заполнен для любых аутентифицированных исходов, Status — когда
// выполнялась проверка подписки.
type Decision struct {
	Allowed bool
	Reason  Reason
	User    *models.User
	Status  models.SubscriptionStatus
}

func allow(user *models.User, status models.SubscriptionStatus) Decision {
	return Decision{Allowed: true, User: user, Status: status}
}

func deny(reason Reason, user *models.User) Decision {
	return Decision{Reason: reason, User: user}
}

// HTTPStatus транслирует отказ в HTTP-статус для API-контекста.
// Единственная таблица соответствия отказа и статуса в приложении.
func (d Decision) HTTPStatus() int {
	if d.Allowed {
		return http.StatusOK
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return http.StatusUnauthorized
	case ReasonEntitlementRequired, ReasonForbidden:
		return http.StatusForbidden
	case ReasonUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message текст ошибки для тела API-ответа.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonUnauthenticated:
		return "Unauthorized"
	case ReasonEntitlementRequired:
		return "active subscription required"
	case ReasonForbidden:
		return "forbidden"
	case ReasonUpstreamUnavailable:
		return "service temporarily unavailable"
	default:
		return ""
	}
}

// RedirectTarget транслирует отказ в адрес редиректа для страничного контекста.
// Аноним возвращается на логин с параметром redirect, чтобы после входа попасть
// в исходный пункт назначения; неактивная подписка ведет на оплату.
// Пустая строка означает, что редиректа нет и следует отдать HTTP-статус.
func (d Decision) RedirectTarget(originalPath string) string {
	switch d.Reason {
	case ReasonUnauthenticated:
		return "/login?redirect=" + url.QueryEscape(originalPath)
	case ReasonEntitlementRequired:
		return "/payment"
	default:
		return ""
	}
}
