// Package thoughts2action собирает HTTP-приложение: маршруты, middleware и сервисы.
package thoughts2action

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/thoughts2action/thoughts2action/internal/billing"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/admin/createadmin"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/admin/listusers"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/auth/login"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/auth/refresh"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/auth/register"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/dashboard"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/health"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/payment/paymentstatus"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/payment/paymentwebhook"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/create"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/export"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/list"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/read"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/remove"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/summarize"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/transcribe"
	"github.com/thoughts2action/thoughts2action/internal/http/handlers/thought/update"
	"github.com/thoughts2action/thoughts2action/internal/http/middlewarectx"
	accountservice "github.com/thoughts2action/thoughts2action/internal/services/account"
	entitlementservice "github.com/thoughts2action/thoughts2action/internal/services/entitlement"
	exporterservice "github.com/thoughts2action/thoughts2action/internal/services/exporter"
	summarizerservice "github.com/thoughts2action/thoughts2action/internal/services/summarizer"
	thoughtservice "github.com/thoughts2action/thoughts2action/internal/services/thought"
	transcriberservice "github.com/thoughts2action/thoughts2action/internal/services/transcriber"
)

// routeDeps собирает зависимости маршрутов в одном месте.
type routeDeps struct {
	cfg         *config.Config
	gate        middlewarectx.Gate
	account     *accountservice.AccountService
	thoughts    *thoughtservice.ThoughtService
	summarizer  *summarizerservice.SummarizerService
	transcriber *transcriberservice.TranscriberService
	exporter    *exporterservice.ExporterService
	entitlement *entitlementservice.EntitlementService
	billing     *billing.Client
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps routeDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	providerCfg := deps.cfg.IdentityProvider

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.account, providerCfg).ServeHTTP)
		r.Post("/login", login.New(logger, deps.account, providerCfg).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, deps.account, providerCfg).ServeHTTP)

		// Группа за полным гейтом: аутентификация + активная подписка
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GateMiddleware(deps.gate, providerCfg, logger))
			r.Post("/thoughts", create.New(logger, deps.thoughts).ServeHTTP)
			r.Get("/thoughts", list.New(logger, deps.thoughts).ServeHTTP)
			r.Get("/thoughts/{id}", read.New(logger, deps.thoughts).ServeHTTP)
			r.Put("/thoughts/{id}", update.New(logger, deps.thoughts).ServeHTTP)
			r.Delete("/thoughts/{id}", remove.New(logger, deps.thoughts).ServeHTTP)
			r.Post("/thoughts/{id}/summarize", summarize.New(logger, deps.summarizer).ServeHTTP)
			r.Post("/transcriptions", transcribe.New(logger, deps.transcriber).ServeHTTP)
			r.Post("/exports", export.New(logger, deps.exporter).ServeHTTP)
		})

		// Группа только за аутентификацией: доступна до оплаты подписки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.IdentityGateMiddleware(deps.gate, providerCfg, logger))
			r.Get("/payments/status", paymentstatus.New(logger, deps.billing).ServeHTTP)
		})

		// Административная группа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminGateMiddleware(deps.gate, providerCfg, logger))
			r.Post("/admin/users", createadmin.New(logger, deps.account).ServeHTTP)
			r.Get("/admin/users", listusers.New(logger, deps.account).ServeHTTP)
		})

		// Webhook endpoint: вместо гейта — проверка HMAC-подписи тела
		r.Post("/payments/webhook",
			paymentwebhook.New(logger, deps.entitlement, deps.cfg.Billing.WebhookSecret).ServeHTTP)
	})

	// Страничная группа: отказы транслируются в редиректы
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.PageGateMiddleware(deps.gate, providerCfg, logger))
		r.Get("/dashboard", dashboard.New(logger, deps.thoughts).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
