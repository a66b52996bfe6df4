package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
)

type evaluateFunc func(ctx context.Context, cred authgate.Credential) (authgate.Decision, authgate.Credential)

// GateMiddleware возвращает HTTP middleware полного гейта для API-ресурсов:
// аутентификация плюс проверка активной подписки. Отказ отдается JSON-телом
// со статусом и причиной из таблицы трансляции решения.
//
// Если гейт ротировал сессию, обновленная пара записывается в cookies ответа.
func GateMiddleware(gate Gate, cfg config.IdentityProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return evaluateWith(gate.Evaluate, cfg, log, "middlewarectx.GateMiddleware")
}

// IdentityGateMiddleware возвращает middleware, проверяющее только
// аутентификацию. Применяется к ресурсам, доступным до оплаты подписки.
func IdentityGateMiddleware(gate Gate, cfg config.IdentityProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return evaluateWith(gate.EvaluateIdentity, cfg, log, "middlewarectx.IdentityGateMiddleware")
}

// AdminGateMiddleware возвращает middleware административных ресурсов.
func AdminGateMiddleware(gate Gate, cfg config.IdentityProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return evaluateWith(gate.EvaluateAdmin, cfg, log, "middlewarectx.AdminGateMiddleware")
}

func evaluateWith(evaluate evaluateFunc, cfg config.IdentityProvider, log *slog.Logger, op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cred := authgate.ResolveCredential(r, cfg.AccessCookie, cfg.RefreshCookie)
			decision, newCred := evaluate(r.Context(), cred)
			if newCred != cred {
				newCred.WriteCookies(w, cfg.AccessCookie, cfg.RefreshCookie)
			}

			if !decision.Allowed {
				reqLog.Info("access denied",
					slog.String("reason", string(decision.Reason)),
					slog.String("path", r.URL.Path))
				render.Status(r, decision.HTTPStatus())
				render.JSON(w, r, response.ErrorWithReason(decision.Message(), string(decision.Reason)))
				return
			}

			next.ServeHTTP(w, withUser(r, decision.User))
		})
	}
}
