package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/taskr/internal/api"
	"github.com/phrazzld/taskr/internal/config"
	"github.com/phrazzld/taskr/internal/events"
	"github.com/phrazzld/taskr/internal/metrics"
	"github.com/phrazzld/taskr/internal/notify"
	"github.com/phrazzld/taskr/internal/platform/memory"
	"github.com/phrazzld/taskr/internal/platform/postgres"
	"github.com/phrazzld/taskr/internal/service"
	"github.com/phrazzld/taskr/internal/service/auth"
	"github.com/phrazzld/taskr/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// application holds the shared dependencies so they can be shut down in
// order.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the in-memory backend.
	db *sql.DB

	users store.UserStore
	tasks store.TaskStore
	tx    store.Transactor

	registry   *prometheus.Registry
	dispatcher *notify.Dispatcher
	handler    http.Handler
}

// newApplication wires the stores, services and router described by cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.RegisterMetrics(app.registry)

	emitter := events.NewInMemoryEventEmitter(logger)
	if cfg.Notify.Enabled {
		app.dispatcher = newDispatcher(cfg.Notify, logger)
		app.dispatcher.Start()
		emitter.RegisterHandler(app.dispatcher)
	}

	app.handler = api.NewRouter(api.RouterConfig{
		Accounts:       service.NewAccountService(app.users, app.tx, hasher, tokens, emitter, logger),
		Tasks:          service.NewTaskService(app.tasks, logger),
		Authenticator:  auth.NewSessionAuthenticator(tokens, app.users, logger),
		MetricsHandler: promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
		Logger:         logger,
	})

	logger.Info("application initialized")
	return app, nil
}

// setupStores opens the configured backend.
func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		db := memory.New()
		app.users, app.tasks, app.tx = db.Users(), db.Tasks(), db
		app.logger.Warn("using in-memory storage; data is lost on restart")
		return nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, app.config.Database, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
		app.users = postgres.NewUserStore(db, app.logger)
		app.tasks = postgres.NewTaskStore(db, app.logger)
		app.tx = postgres.NewTransactor(db, app.logger)
		return nil

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
}

// newDispatcher picks the SMTP sender when a relay is configured and the
// log sender otherwise.
func newDispatcher(cfg config.NotifyConfig, logger *slog.Logger) *notify.Dispatcher {
	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg)
	}
	return notify.NewDispatcher(sender, notify.DispatcherConfig{
		QueueSize:  cfg.QueueSize,
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
	}, logger)
}

// Run listens on the configured port and serves until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(app.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		app.cleanup(context.Background())
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return app.serve(ctx, ln)
}

// serve runs the HTTP server on ln, then shuts down gracefully once ctx is
// cancelled or the server fails.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			app.logger.Error("server failed", "error", err)
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	timeout := app.config.Server.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}

	app.cleanup(shutdownCtx)
	app.logger.Info("server shutdown completed")
	return runErr
}

// cleanup drains notifications and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Warn("notification dispatcher did not drain", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
