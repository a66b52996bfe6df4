package authgate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// IdentityProvider описывает контракт внешнего провайдера идентификации.
// LoadIdentity делает ровно один удаленный вызов за вычисление; ошибки
// сведены к ErrInvalidCredential и ErrUpstreamUnavailable.
type IdentityProvider interface {
	LoadIdentity(ctx context.Context, accessToken string) (*models.User, error)
}

// SessionRefresher описывает побочный канал ротации сессии провайдера.
type SessionRefresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

// EntitlementSource описывает чтение биллингового статуса пользователя.
// Отсутствие строки — StatusNone, не ошибка.
type EntitlementSource interface {
	Status(ctx context.Context, userUID string) (models.SubscriptionStatus, error)
}

// Gate вычисляет решение о доступе для каждого запроса независимо:
// чистая функция от (учетные данные, состояние внешних хранилищ),
// без межзапросного кеша.
type Gate struct {
	identity     IdentityProvider
	refresher    SessionRefresher
	entitlements EntitlementSource
	log          *slog.Logger
}

// New создает Gate с явно переданными зависимостями.
// refresher может быть nil — тогда ротация сессий не выполняется.
func New(identity IdentityProvider, refresher SessionRefresher, entitlements EntitlementSource, log *slog.Logger) *Gate {
	return &Gate{
		identity:     identity,
		refresher:    refresher,
		entitlements: entitlements,
		log:          log,
	}
}

// Evaluate вычисляет полное решение: аутентификация, затем для не-админов —
// проверка активной подписки. Админы минуют проверку подписки без обращения
// к хранилищу: их учетные записи не тарифицируются и не должны блокироваться
// отсутствующей или устаревшей строкой биллинга.
//
// Возвращаемые учетные данные совпадают с входными, если ротации не было;
// иначе это обновленная пара, которую вызывающий обязан записать в ответ.
func (g *Gate) Evaluate(ctx context.Context, cred Credential) (Decision, Credential) {
	d, cred := g.authenticate(ctx, cred)
	if d.Reason != "" {
		return g.observed(d), cred
	}
	if d.User.IsAdmin() {
		return g.observed(allow(d.User, models.StatusActive)), cred
	}

	status, err := g.entitlements.Status(ctx, d.User.UID)
	if err != nil {
		g.log.Error("entitlement lookup failed", sl.Err(err))
		return g.observed(deny(ReasonUpstreamUnavailable, d.User)), cred
	}
	if !status.Active() {
		d = deny(ReasonEntitlementRequired, d.User)
		d.Status = status
		return g.observed(d), cred
	}
	return g.observed(allow(d.User, status)), cred
}

// EvaluateIdentity вычисляет решение только по аутентификации, без проверки
// подписки. Применяется к ресурсам, которые должны быть доступны еще не
// оплатившему пользователю (статус платежа, страница оплаты).
func (g *Gate) EvaluateIdentity(ctx context.Context, cred Credential) (Decision, Credential) {
	d, cred := g.authenticate(ctx, cred)
	if d.Reason != "" {
		return g.observed(d), cred
	}
	return g.observed(allow(d.User, "")), cred
}

// EvaluateAdmin дополнительный гейт для административных ресурсов.
// Аноним получает unauthenticated, а не forbidden: отказ не должен
// раскрывать существование административной конечной точки.
func (g *Gate) EvaluateAdmin(ctx context.Context, cred Credential) (Decision, Credential) {
	d, cred := g.authenticate(ctx, cred)
	if d.Reason != "" {
		return g.observed(d), cred
	}
	if !d.User.IsAdmin() {
		return g.observed(deny(ReasonForbidden, d.User)), cred
	}
	return g.observed(allow(d.User, models.StatusActive)), cred
}

// authenticate резолвит идентичность по учетным данным. Невалидный access-токен
// при наличии refresh-токена прозрачно ротируется через провайдера, и попытка
// повторяется один раз с обновленной парой.
func (g *Gate) authenticate(ctx context.Context, cred Credential) (Decision, Credential) {
	if cred.Anonymous() {
		return deny(ReasonUnauthenticated, nil), cred
	}

	user, err := g.identity.LoadIdentity(ctx, cred.AccessToken)
	if err != nil && errors.Is(err, ErrInvalidCredential) && g.refresher != nil && cred.RefreshToken != "" {
		access, refresh, refreshErr := g.refresher.RefreshSession(ctx, cred.RefreshToken)
		if refreshErr == nil {
			cred = Credential{AccessToken: access, RefreshToken: refresh}
			user, err = g.identity.LoadIdentity(ctx, cred.AccessToken)
		}
	}
	if err != nil {
		if errors.Is(err, ErrInvalidCredential) {
			return deny(ReasonUnauthenticated, nil), cred
		}
		g.log.Error("identity provider call failed", sl.Err(err))
		return deny(ReasonUpstreamUnavailable, nil), cred
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return Decision{User: user}, cred
}

func (g *Gate) observed(d Decision) Decision {
	observeDecision(d)
	return d
}
