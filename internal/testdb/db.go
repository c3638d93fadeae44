package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/taskr/internal/config"
	"github.com/phrazzld/taskr/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL names the variable holding the test database DSN.
const EnvDatabaseURL = "TASKR_TEST_DATABASE_URL"

// TestTimeout bounds setup operations against the test database.
const TestTimeout = 10 * time.Second

// DatabaseURL returns the configured test DSN, or "" when unset.
func DatabaseURL() string {
	return strings.TrimSpace(os.Getenv(EnvDatabaseURL))
}

// IsIntegrationTestEnvironment reports whether a test database is available.
func IsIntegrationTestEnvironment() bool {
	return DatabaseURL() != ""
}

// GetTestDB opens the test database, applies migrations and truncates all
// tables. The test is skipped when no database is configured. The
// connection is closed when the test finishes.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skipf("%s not set - skipping integration test", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          dbURL,
		MaxOpenConns: 10,
	}, logger)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, logger), "failed to migrate test database")
	ResetTables(t, db)

	return db
}

// ResetTables removes every row from the service's tables.
func ResetTables(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE tasks, users")
	require.NoError(t, err, "failed to truncate tables")
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
