package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
)

// TaskFilter selects task documents. Zero-valued fields are not applied,
// except that Owner is mandatory for every query.
type TaskFilter struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	Completed *bool
}

// SortField names a sortable task attribute.
type SortField string

// Sortable task attributes.
const (
	SortByDescription SortField = "description"
	SortByCompleted   SortField = "completed"
	SortByCreatedAt   SortField = "createdAt"
	SortByUpdatedAt   SortField = "updatedAt"
)

// Sort orders a task query. A zero Sort means insertion order.
type Sort struct {
	Field      SortField
	Descending bool
}

// FindOptions bounds and orders a task query. Zero Limit means no limit.
type FindOptions struct {
	Sort  Sort
	Limit int
	Skip  int
}

// TaskStore defines the interface for the tasks collection.
type TaskStore interface {
	// Insert saves a new task.
	Insert(ctx context.Context, task *domain.Task) error

	// FindOne retrieves the task matching both filter.ID and filter.Owner.
	// Returns ErrTaskNotFound if no task matches.
	FindOne(ctx context.Context, filter TaskFilter) (*domain.Task, error)

	// Find returns the tasks matching filter, ordered and bounded by opts.
	// Returns an empty slice when nothing matches.
	Find(ctx context.Context, filter TaskFilter, opts FindOptions) ([]*domain.Task, error)

	// UpdateByID writes description, completed and updated_at of the task
	// with the same ID and owner.
	// Returns ErrTaskNotFound if no task matches.
	UpdateByID(ctx context.Context, task *domain.Task) error

	// DeleteOne removes the task matching filter.ID and filter.Owner and
	// returns its prior state.
	// Returns ErrTaskNotFound if no task matches.
	DeleteOne(ctx context.Context, filter TaskFilter) (*domain.Task, error)

	// DeleteMany removes every task matching filter and returns the count.
	DeleteMany(ctx context.Context, filter TaskFilter) (int64, error)
}

// TxFunc runs against stores bound to a single unit of work.
type TxFunc func(ctx context.Context, users UserStore, tasks TaskStore) error

// Transactor runs multi-collection units of work. Backends with
// transactions commit fn's writes atomically; others run fn's steps in
// order without rollback.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
