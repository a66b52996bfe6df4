package thoughts2action

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/billing"
	"github.com/thoughts2action/thoughts2action/internal/cache"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/identity"
	"github.com/thoughts2action/thoughts2action/internal/lib/rabbitmq"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/llm"
	"github.com/thoughts2action/thoughts2action/internal/migrations"
	accountservice "github.com/thoughts2action/thoughts2action/internal/services/account"
	entitlementservice "github.com/thoughts2action/thoughts2action/internal/services/entitlement"
	exporterservice "github.com/thoughts2action/thoughts2action/internal/services/exporter"
	summarizerservice "github.com/thoughts2action/thoughts2action/internal/services/summarizer"
	thoughtservice "github.com/thoughts2action/thoughts2action/internal/services/thought"
	transcriberservice "github.com/thoughts2action/thoughts2action/internal/services/transcriber"
	"github.com/thoughts2action/thoughts2action/internal/sheets"
	"github.com/thoughts2action/thoughts2action/internal/storage"
)

// App HTTP-приложение Thoughts2Action.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	rabbit *amqp.Connection
}

// New собирает приложение: хранилище с миграциями, кеш, клиенты внешних
// сервисов, авторизационный гейт и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	identityClient := identity.NewClient(cfg.IdentityProvider)
	llmClient := llm.NewClient(cfg.LLMProvider)
	sheetsClient := sheets.NewClient(cfg.SheetsExport)
	billingClient := billing.NewClient(cfg.Billing)

	// Издатель уведомлений опционален: без RabbitMQ приложение работает,
	// письма о смене статуса просто не отправляются.
	var rabbitConn *amqp.Connection
	var publisher entitlementservice.EventPublisher
	if cfg.Rabbit.RabbitURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.Rabbit.RabbitURL, 5, 3*time.Second)
		if err != nil {
			logger.Warn("rabbitmq unavailable, notifications disabled", sl.Err(err))
		} else {
			ch, chErr := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues(cfg.Rabbit.NotificationQueue))
			if chErr != nil {
				logger.Warn("rabbitmq channel setup failed, notifications disabled", sl.Err(chErr))
			} else {
				publisher = rabbitmq.NewNotificationPublisher(ch)
			}
		}
	}

	entitlementService := entitlementservice.NewEntitlementService(db, publisher, logger)
	accountService := accountservice.NewAccountService(identityClient, db, logger)
	thoughtService := thoughtservice.NewThoughtService(db, cacheRedis, logger)
	summarizerService := summarizerservice.NewSummarizerService(llmClient, db, cacheRedis, logger)
	transcriberService := transcriberservice.NewTranscriberService(llmClient, db, logger)
	exporterService := exporterservice.NewExporterService(sheetsClient, db, logger)

	gate := authgate.New(identityClient, identityClient, entitlementService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, routeDeps{
		cfg:         cfg,
		gate:        gate,
		account:     accountService,
		thoughts:    thoughtService,
		summarizer:  summarizerService,
		transcriber: transcriberService,
		exporter:    exporterService,
		entitlement: entitlementService,
		billing:     billingClient,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.rabbit != nil {
			if closeErr := a.rabbit.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
