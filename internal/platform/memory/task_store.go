package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/store"
)

// TaskStore implements store.TaskStore on a DB.
type TaskStore struct {
	db *DB
}

var _ store.TaskStore = (*TaskStore)(nil)

func matches(t *domain.Task, f store.TaskFilter) bool {
	if t.OwnerID != f.Owner {
		return false
	}
	if f.ID != uuid.Nil && t.ID != f.ID {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// Insert implements store.TaskStore.Insert.
func (s *TaskStore) Insert(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, t := range s.db.tasks {
		if t.ID == task.ID {
			return store.ErrDuplicate
		}
	}
	s.db.tasks = append(s.db.tasks, task.Clone())
	return nil
}

// FindOne implements store.TaskStore.FindOne.
func (s *TaskStore) FindOne(ctx context.Context, filter store.TaskFilter) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, t := range s.db.tasks {
		if t.ID == filter.ID && matches(t, filter) {
			return t.Clone(), nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// Find implements store.TaskStore.Find.
func (s *TaskStore) Find(ctx context.Context, filter store.TaskFilter, opts store.FindOptions) ([]*domain.Task, error) {
	s.db.mu.RLock()
	result := make([]*domain.Task, 0)
	for _, t := range s.db.tasks {
		if matches(t, filter) {
			result = append(result, t.Clone())
		}
	}
	s.db.mu.RUnlock()

	if compare := comparator(opts.Sort); compare != nil {
		slices.SortStableFunc(result, compare)
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(result) {
			return []*domain.Task{}, nil
		}
		result = result[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

// comparator orders tasks by the sort field, then creation time and id.
// It returns nil for the zero Sort, keeping insertion order.
func comparator(sort store.Sort) func(a, b *domain.Task) int {
	var primary func(a, b *domain.Task) int
	switch sort.Field {
	case store.SortByDescription:
		primary = func(a, b *domain.Task) int { return strings.Compare(a.Description, b.Description) }
	case store.SortByCompleted:
		primary = func(a, b *domain.Task) int { return compareBool(a.Completed, b.Completed) }
	case store.SortByCreatedAt:
		primary = func(a, b *domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case store.SortByUpdatedAt:
		primary = func(a, b *domain.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return nil
	}

	return func(a, b *domain.Task) int {
		c := primary(a, b)
		if sort.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c = a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	}
}

func compareBool(a, b bool) int {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return cmp.Compare(toInt(a), toInt(b))
}

// UpdateByID implements store.TaskStore.UpdateByID.
func (s *TaskStore) UpdateByID(ctx context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, t := range s.db.tasks {
		if t.ID == task.ID && t.OwnerID == task.OwnerID {
			t.Description = task.Description
			t.Completed = task.Completed
			t.UpdatedAt = task.UpdatedAt
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// DeleteOne implements store.TaskStore.DeleteOne.
func (s *TaskStore) DeleteOne(ctx context.Context, filter store.TaskFilter) (*domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, t := range s.db.tasks {
		if t.ID == filter.ID && matches(t, filter) {
			s.db.tasks = slices.Delete(s.db.tasks, i, i+1)
			return t, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// DeleteMany implements store.TaskStore.DeleteMany.
func (s *TaskStore) DeleteMany(ctx context.Context, filter store.TaskFilter) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	before := len(s.db.tasks)
	s.db.tasks = slices.DeleteFunc(s.db.tasks, func(t *domain.Task) bool {
		return matches(t, filter)
	})
	return int64(before - len(s.db.tasks)), nil
}

// Len returns the number of stored tasks across all owners.
func (s *TaskStore) Len() int {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.tasks)
}
