// Package server initializes and runs the versioning engine server.
// It wires the storage backends, the command dispatcher and the HTTP API,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/markup"
	"github.com/pagesmith/pagesmith/internal/server/catalog"
	"github.com/pagesmith/pagesmith/internal/server/command"
	"github.com/pagesmith/pagesmith/internal/server/config"
	"github.com/pagesmith/pagesmith/internal/server/handlers"
	"github.com/pagesmith/pagesmith/internal/server/httpapi"
	"github.com/pagesmith/pagesmith/internal/server/publish"
	"github.com/pagesmith/pagesmith/internal/server/redirects"
	"github.com/pagesmith/pagesmith/internal/server/repositories/repomanager"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repomanager repomanager.RepositoryManager
	api         *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	versionsRepo := rm.Versions(db)
	templatesRepo := rm.Templates(db)
	catalogRepo := rm.Catalog(db)

	normalizer := markup.NewNormalizer()
	projector := catalog.NewProjector(catalogRepo, normalizer)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	coordinator := publish.NewCoordinator(cfg, rdb, logger)
	redirectHandler := redirects.NewHandler(db, logger)

	d := command.NewDispatcher()
	command.Register(d, handlers.NewSaveHandler(
		versionsRepo, projector, coordinator, redirectHandler, normalizer, logger).Handle)
	command.Register(d, handlers.NewPublishHandler(
		templatesRepo, versionsRepo, catalogRepo, projector, coordinator, logger).Handle)

	api := httpapi.NewServer(d, versionsRepo, redirectHandler, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       rdb,
		repomanager: rm,
		api:         api,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "HTTP shutdown error", "error", err)
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(shutdownCtx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}
	return nil
}
