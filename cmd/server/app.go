package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/platform/postgres"
	"github.com/phrazzld/taskhub-api/internal/platform/rediscache"
	"github.com/phrazzld/taskhub-api/internal/realtime"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
	"github.com/phrazzld/taskhub-api/internal/webhook"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	jwtService     auth.JWTService
	projectService service.ProjectService
	taskService    service.TaskService
	noteService    service.NoteService

	emitter  *events.InMemoryEventEmitter
	registry *realtime.Registry
	realtime *realtime.Server

	webhooks       *webhook.Registry
	webhookHandler *webhook.Handler
}

// newApplication wires stores, services, the realtime hub and webhook ingress.
// db must already be connected; Redis is optional.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	projectStore := postgres.NewPostgresProjectStore(db, logger)
	membershipStore := postgres.NewPostgresMembershipStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	noteStore := postgres.NewPostgresNoteStore(db, logger)

	var (
		oracle realtime.MembershipOracle = membershipStore
		cache  service.MembershipCache
	)
	if cfg.Redis.URL != "" {
		app.redis, err = rediscache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		cached := rediscache.NewMembershipOracle(app.redis, membershipStore, cfg.Redis.MembershipTTL(), logger)
		oracle = cached
		cache = cached
		logger.Info("membership cache enabled", "ttl", cfg.Redis.MembershipTTL())
	}

	app.registry = realtime.NewRegistry(logger)
	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(realtime.NewNotifier(app.registry, logger))

	app.projectService, err = service.NewProjectService(db, projectStore, membershipStore, cache, app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}
	app.taskService, err = service.NewTaskService(taskStore, projectStore, membershipStore, app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.noteService, err = service.NewNoteService(noteStore, projectStore, membershipStore, app.emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	dispatcher := realtime.NewDispatcher(app.registry, oracle, logger)
	app.realtime = realtime.NewServer(app.registry, dispatcher, app.jwtService, cfg.Realtime, logger)

	app.webhooks = webhook.NewRegistry()
	registerWebhookHandlers(app.webhooks, app.registry, logger)
	ingress := webhook.NewIngress(
		app.webhooks,
		webhook.NewSecretResolver(cfg.Webhook),
		cfg.Webhook.EnforceSignature,
		logger,
	)
	app.webhookHandler = webhook.NewHandler(ingress, app.webhooks, cfg.Webhook.MaxBodyBytes, logger)

	logger.Info("application initialized",
		"webhook_handlers", app.webhooks.RegisteredEventTypes(),
		"enforce_webhook_signature", cfg.Webhook.EnforceSignature)
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases connections after the HTTP server has stopped.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
