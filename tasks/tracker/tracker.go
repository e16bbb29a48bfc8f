package tracker

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/errors"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/store"
)

// Tracker defines the business operations shared by the v1 and v2 endpoint
// families. Both families delegate here; v2 only adds the auth gate in front.
type Tracker interface {
	// GetTask retrieves a task by id.
	GetTask(ctx context.Context, id int) (*tasks.Task, error)

	// CreateTask validates and inserts a new task, returning the created
	// record with its assigned id.
	CreateTask(ctx context.Context, title, description string, done bool) (*tasks.Task, error)

	// UpdateTask applies the supplied patch fields to an existing task.
	// An empty patch is a valid no-op.
	UpdateTask(ctx context.Context, id int, patch tasks.TaskPatch) error

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, id int) error
}

// tracker is the single implementation, parameterized by the injected store.
type tracker struct {
	store  store.TaskStore
	logger *logger.Logger
}

var _ Tracker = (*tracker)(nil)

// NewTracker constructs a tracker backed by the given store.
func NewTracker(st store.TaskStore, lg *logger.Logger) Tracker {
	return &tracker{
		store:  st,
		logger: lg,
	}
}

func (t *tracker) GetTask(ctx context.Context, id int) (*tasks.Task, error) {
	if err := validateID(id); err != nil {
		t.logger.Error("invalid task ID provided", map[string]any{
			"task_id": id,
		})
		return nil, err
	}

	t.logger.Task("searching for task", id)

	task, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, t.mapStoreError(id, err)
	}

	t.logger.Task("task found", id, map[string]any{
		"title": task.Title,
		"done":  task.Done,
	})

	return task, nil
}

func (t *tracker) CreateTask(ctx context.Context, title, description string, done bool) (*tasks.Task, error) {
	if strings.TrimSpace(title) == "" {
		t.logger.Error("task title is missing or empty")
		return nil, errors.NewValidationError("task title is required")
	}

	task, err := t.store.Add(ctx, title, description, done)
	if err != nil {
		t.logger.Error("failed to add task", map[string]any{
			"error": err.Error(),
		})
		return nil, errors.NewInternalError("failed to add task")
	}

	t.logger.Task("task added successfully", task.ID, map[string]any{
		"title": task.Title,
		"done":  task.Done,
	})

	return task, nil
}

func (t *tracker) UpdateTask(ctx context.Context, id int, patch tasks.TaskPatch) error {
	if err := validateID(id); err != nil {
		t.logger.Error("invalid task ID provided", map[string]any{
			"task_id": id,
		})
		return err
	}

	if err := t.store.Update(ctx, id, patch); err != nil {
		return t.mapStoreError(id, err)
	}

	t.logger.Task("task updated successfully", id, map[string]any{
		"no_op": patch.IsEmpty(),
	})

	return nil
}

func (t *tracker) DeleteTask(ctx context.Context, id int) error {
	if err := validateID(id); err != nil {
		t.logger.Error("invalid task ID provided", map[string]any{
			"task_id": id,
		})
		return err
	}

	if err := t.store.Delete(ctx, id); err != nil {
		return t.mapStoreError(id, err)
	}

	t.logger.Task("task deleted successfully", id)

	return nil
}

// validateID rejects non-positive ids before the store is consulted, so
// GetTask(0) is invalid_argument rather than not_found.
func validateID(id int) error {
	if id <= 0 {
		return errors.NewInvalidArgumentError("task ID must be a positive integer")
	}
	return nil
}

// mapStoreError translates store failures into the request error taxonomy.
func (t *tracker) mapStoreError(id int, err error) error {
	if stderrors.Is(err, store.ErrTaskNotFound) {
		t.logger.Warn("task not found", map[string]any{
			"task_id": id,
		})
		return errors.NewNotFoundError(fmt.Sprintf("task with ID %d not found", id))
	}

	t.logger.Error("store operation failed", map[string]any{
		"task_id": id,
		"error":   err.Error(),
	})
	return errors.NewInternalError(err.Error())
}
