package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-intel/internal/api/http"
	"github.com/spec-kit/ticket-intel/internal/api/http/handlers"
	"github.com/spec-kit/ticket-intel/internal/cache"
	"github.com/spec-kit/ticket-intel/internal/config"
	"github.com/spec-kit/ticket-intel/internal/events"
	"github.com/spec-kit/ticket-intel/internal/kvstore"
	"github.com/spec-kit/ticket-intel/internal/llm"
	"github.com/spec-kit/ticket-intel/internal/observability"
	"github.com/spec-kit/ticket-intel/internal/persistence"
	"github.com/spec-kit/ticket-intel/internal/repository"
	"github.com/spec-kit/ticket-intel/internal/service"
	"github.com/spec-kit/ticket-intel/internal/ticketsource"
	"github.com/spec-kit/ticket-intel/internal/usage"
	"github.com/spec-kit/ticket-intel/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	store := kvstore.NewRedisStore(redis.Client)
	summaryCache := cache.NewSummaryCache(store, logger)
	tracker := usage.NewTracker(store, logger)
	auditRepo := repository.NewExtractionRepository(pg.PoolHandle())

	fetcher := ticketsource.NewClient(ticketsource.Options{
		Domain:   cfg.TicketSource.Domain,
		Email:    cfg.TicketSource.Email,
		APIToken: cfg.TicketSource.APIToken,
	}, logger)

	var client llm.Client
	var lister handlers.ModelLister
	backend := "hosted"
	if cfg.Model.UseLocalServer {
		backend = "local"
		local := llm.NewLocalClient(llm.LocalOptions{
			ServerURL: cfg.Model.LocalServerURL,
			Model:     cfg.Model.LocalModelName,
		}, logger)
		client = local
		lister = local
	} else {
		client = llm.NewHostedClient(llm.HostedOptions{
			APIKey:    cfg.Model.HostedAPIKey,
			Model:     cfg.Model.HostedModel,
			MaxTokens: cfg.Model.MaxTokens,
		}, logger)
	}

	extractionService := service.NewExtractionService(service.ExtractionDependencies{
		Fetcher:    fetcher,
		Client:     client,
		Backend:    backend,
		Template:   cfg.Model.PromptTemplate,
		Cache:      summaryCache,
		Usage:      tracker,
		AuditRepo:  auditRepo,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	followupService := service.NewFollowupService(service.FollowupDependencies{
		Client:     client,
		Backend:    backend,
		Cache:      summaryCache,
		Usage:      tracker,
		AuditRepo:  auditRepo,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	maintenanceService := service.NewMaintenanceService(summaryCache, tracker, dispatcher, logger)
	notificationService := service.NewNotificationService(cfg.Notification, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(pg, redis),
		Extraction:  handlers.NewExtractionHandler(extractionService, followupService),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService),
		Models:      handlers.NewModelsHandler(backend, lister, cfg.Model.HostedModel),
		Template:    handlers.NewTemplateHandler(cfg.Model.PromptTemplate),
		Audit:       handlers.NewAuditHandler(auditRepo),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
