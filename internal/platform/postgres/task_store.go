package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/store"
)

const taskColumns = `id, owner_id, description, completed, created_at, updated_at`

// sortColumns maps sortable fields to their columns. Text sorts by byte
// order so results match the in-memory store regardless of the database
// locale.
var sortColumns = map[store.SortField]string{
	store.SortByDescription: `description COLLATE "C"`,
	store.SortByCompleted:   "completed",
	store.SortByCreatedAt:   "created_at",
	store.SortByUpdatedAt:   "updated_at",
}

// TaskStore implements store.TaskStore on PostgreSQL.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore. db may be a *sql.DB or a *sql.Tx.
// If logger is nil, slog.Default() is used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// whereClause renders filter as a WHERE clause with positional args.
func whereClause(filter store.TaskFilter) (string, []any) {
	conds := []string{"owner_id = $1"}
	args := []any{filter.Owner}
	if filter.ID != uuid.Nil {
		args = append(args, filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause renders the sort with created_at and id as tie-breakers.
func orderClause(sort store.Sort) string {
	col, ok := sortColumns[sort.Field]
	if !ok || col == "created_at" {
		if ok && sort.Descending {
			return " ORDER BY created_at DESC, id DESC"
		}
		return " ORDER BY created_at ASC, id ASC"
	}
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, created_at ASC, id ASC", col, dir)
}

// Insert implements store.TaskStore.Insert.
func (s *TaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return wrapErr("task", "insert", err)
	}

	log.Debug("task inserted",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// FindOne implements store.TaskStore.FindOne.
func (s *TaskStore) FindOne(ctx context.Context, filter store.TaskFilter) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, filter.ID, filter.Owner))
	if err != nil {
		mapped := wrapErr("task", "find", err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to find task",
			slog.String("error", err.Error()),
			slog.String("task_id", filter.ID.String()))
		return nil, mapped
	}
	return t, nil
}

// Find implements store.TaskStore.Find.
func (s *TaskStore) Find(ctx context.Context, filter store.TaskFilter, opts store.FindOptions) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := whereClause(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + orderClause(opts.Sort)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", filter.Owner.String()))
		return nil, wrapErr("task", "find", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapErr("task", "scan", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("task", "find", err)
	}

	log.Debug("tasks listed",
		slog.String("owner_id", filter.Owner.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// UpdateByID implements store.TaskStore.UpdateByID.
func (s *TaskStore) UpdateByID(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET description = $3, completed = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed, task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return wrapErr("task", "update", err)
	}
	return checkRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteOne implements store.TaskStore.DeleteOne.
func (s *TaskStore) DeleteOne(ctx context.Context, filter store.TaskFilter) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns
	t, err := scanTask(s.db.QueryRowContext(ctx, query, filter.ID, filter.Owner))
	if err != nil {
		mapped := wrapErr("task", "delete", err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", filter.ID.String()))
		return nil, mapped
	}

	log.Debug("task deleted", slog.String("task_id", t.ID.String()))
	return t, nil
}

// DeleteMany implements store.TaskStore.DeleteMany.
func (s *TaskStore) DeleteMany(ctx context.Context, filter store.TaskFilter) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := whereClause(filter)
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks`+where, args...)
	if err != nil {
		log.Error("failed to delete tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", filter.Owner.String()))
		return 0, wrapErr("task", "delete_many", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrapErr("task", "delete_many", err)
	}

	log.Debug("tasks deleted",
		slog.String("owner_id", filter.Owner.String()),
		slog.Int64("count", n))
	return n, nil
}
