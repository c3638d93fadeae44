package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/domain"
	"github.com/phrazzld/taskr/internal/platform/logger"
	"github.com/phrazzld/taskr/internal/store"
)

// TaskService provides owner-scoped task operations. A task owned by another
// account is reported exactly like a missing one, with ErrNotFound.
type TaskService interface {
	// Create stores a new task owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)

	// Get returns one of ownerID's tasks.
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies a partial update limited to description and completed.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, fields domain.Fields) (*domain.Task, error)

	// Delete removes one of ownerID's tasks and returns its prior state.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// List returns ownerID's tasks matching query. An empty result is not an
	// error.
	List(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]*domain.Task, error)
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, s.taskErr(ctx, "failed to create task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.FindOne(ctx, store.TaskFilter{ID: taskID, Owner: ownerID})
	if err != nil {
		return nil, s.taskErr(ctx, "failed to get task", err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	fields domain.Fields,
) (*domain.Task, error) {
	patch, err := domain.ParseTaskPatch(fields)
	if err != nil {
		return nil, err
	}

	current, err := s.tasks.FindOne(ctx, store.TaskFilter{ID: taskID, Owner: ownerID})
	if err != nil {
		return nil, s.taskErr(ctx, "failed to load task for update", err)
	}

	updated, err := patch.Apply(current)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateByID(ctx, updated); err != nil {
		return nil, s.taskErr(ctx, "failed to update task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return updated, nil
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.DeleteOne(ctx, store.TaskFilter{ID: taskID, Owner: ownerID})
	if err != nil {
		return nil, s.taskErr(ctx, "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// List implements TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]*domain.Task, error) {
	filter := store.TaskFilter{Owner: ownerID, Completed: query.Completed}
	opts := store.FindOptions{Sort: query.Sort, Limit: query.Limit, Skip: query.Skip}

	tasks, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, s.taskErr(ctx, "failed to list tasks", err)
	}
	return tasks, nil
}

// taskErr maps a store failure: any not-found becomes ErrNotFound, anything
// else is logged and wrapped.
func (s *TaskServiceImpl) taskErr(ctx context.Context, msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error(msg, slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", msg, err)
}
