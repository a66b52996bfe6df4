// Package middlewarectx содержит HTTP middleware авторизационного гейта.
//
// Каждое middleware извлекает учетные данные запроса, запрашивает решение
// у гейта и транслирует отказ в ответ: API-контекст получает HTTP-статус
// с JSON-телом, страничный контекст — редирект. Сами правила трансляции
// живут в одном месте, на типе решения гейта; middleware их только применяют.
package middlewarectx

import (
	"context"
	"net/http"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для пользователя запроса в контексте
	User Key = "user"
)

// Gate описывает интерфейс авторизационного гейта.
type Gate interface {
	Evaluate(ctx context.Context, cred authgate.Credential) (authgate.Decision, authgate.Credential)
	EvaluateIdentity(ctx context.Context, cred authgate.Credential) (authgate.Decision, authgate.Credential)
	EvaluateAdmin(ctx context.Context, cred authgate.Credential) (authgate.Decision, authgate.Credential)
}

// UserFromContext возвращает пользователя запроса, положенного гейтом.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok
}

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), User, user))
}
