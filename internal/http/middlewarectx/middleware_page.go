package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
)

// PageGateMiddleware возвращает middleware полного гейта для страничных
// ресурсов. Отказы с известным пунктом назначения транслируются в редирект:
// аноним уходит на логин с возвратом на исходный адрес, пользователь без
// активной подписки — на страницу оплаты. Остальные отказы отдаются
// HTTP-статусом из той же таблицы трансляции, что и в API-контексте.
func PageGateMiddleware(gate Gate, cfg config.IdentityProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PageGateMiddleware"

			reqLog := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cred := authgate.ResolveCredential(r, cfg.AccessCookie, cfg.RefreshCookie)
			decision, newCred := gate.Evaluate(r.Context(), cred)
			if newCred != cred {
				newCred.WriteCookies(w, cfg.AccessCookie, cfg.RefreshCookie)
			}

			if !decision.Allowed {
				reqLog.Info("page access denied",
					slog.String("reason", string(decision.Reason)),
					slog.String("path", r.URL.Path))
				if target := decision.RedirectTarget(r.URL.Path); target != "" {
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
				http.Error(w, decision.Message(), decision.HTTPStatus())
				return
			}

			next.ServeHTTP(w, withUser(r, decision.User))
		})
	}
}
