package store

import (
	"context"
	"errors"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks"
)

// ErrTaskNotFound signals a lookup for an id the store does not hold.
// Callers match it with errors.Is to translate into their own taxonomy.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore defines the contract for task persistence.
//
// Add owns id assignment: the new id is the current store size plus one,
// computed and inserted in one critical section so concurrent creates cannot
// observe the same size. When that id is already taken (possible after
// deletions, since ids are reused by count) the store advances to the next
// free id to keep ids unique.
type TaskStore interface {
	Add(ctx context.Context, title, description string, done bool) (*tasks.Task, error)
	Get(ctx context.Context, id int) (*tasks.Task, error)
	Update(ctx context.Context, id int, patch tasks.TaskPatch) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}
