package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/taskr/internal/store"
)

// Transactor runs store.TxFunc units of work in a single SQL transaction.
type Transactor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *sql.DB, logger *slog.Logger) *Transactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transactor{db: db, logger: logger}
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTx implements store.Transactor. fn receives stores bound to the
// transaction; its writes commit together or not at all.
func (t *Transactor) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewUserStore(tx, t.logger), NewTaskStore(tx, t.logger))
	})
}
