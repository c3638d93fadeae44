package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/taskr/internal/config"
	"github.com/phrazzld/taskr/internal/redact"
	"github.com/sethvargo/go-retry"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// pingAttempts bounds the startup connectivity check.
const pingAttempts = 5

// Open connects to the database described by cfg, configures the pool and
// waits for the server to answer a ping, backing off exponentially.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(DriverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := Ping(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database connection established",
		slog.String("url", redact.DSN(cfg.URL)),
		slog.Int("max_open_conns", maxOpen))
	return db, nil
}

// Ping checks connectivity, retrying with exponential backoff.
func Ping(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	backoff := retry.WithMaxRetries(pingAttempts-1, retry.NewExponential(200*time.Millisecond))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("database ping failed",
				slog.Int("attempt", attempt),
				slog.String("error", redact.Error(err)))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	return nil
}
