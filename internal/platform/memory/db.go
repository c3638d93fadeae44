package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/store"
)

// DB holds the users and tasks collections. Every operation on a single
// collection is atomic; WithinTx offers no cross-collection atomicity.
type DB struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	tasks []*domain.Task // insertion order
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users: make(map[uuid.UUID]*domain.User),
	}
}

// Users returns the users collection.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// Tasks returns the tasks collection.
func (db *DB) Tasks() *TaskStore {
	return &TaskStore{db: db}
}

var _ store.Transactor = (*DB)(nil)

// WithinTx runs fn against this database's collections. The steps of fn are
// applied one by one as they run; a failure part way through leaves the
// earlier steps in place.
func (db *DB) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return fn(ctx, db.Users(), db.Tasks())
}
