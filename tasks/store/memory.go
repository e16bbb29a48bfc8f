package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks"
)

// Compile-time check to ensure MemoryTaskStore implements TaskStore interface
var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore holds the task list in process memory. It is the default
// backend: an ordered slice with linear id lookup, every operation serialized
// behind one mutex so read-modify-write sequences (id assignment, delete)
// cannot interleave across requests.
type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks []tasks.Task
}

// NewMemoryTaskStore creates and initializes a new MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{}
}

// Add inserts a new task, assigning id = size+1 (advancing past any id still
// held after deletions) within the same critical section as the append.
func (s *MemoryTaskStore) Add(_ context.Context, title, description string, done bool) (*tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.tasks) + 1
	for s.indexOf(id) >= 0 {
		id++
	}

	task := tasks.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Done:        done,
	}
	s.tasks = append(s.tasks, task)

	copied := task
	return &copied, nil
}

// Get retrieves a task by its id.
// It returns a copy of the task to prevent external callers from
// unintentionally modifying the record held in the slice.
func (s *MemoryTaskStore) Get(_ context.Context, id int) (*tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
	}

	copied := s.tasks[i]
	return &copied, nil
}

// Update applies the supplied patch fields to an existing task in place.
func (s *MemoryTaskStore) Update(_ context.Context, id int, patch tasks.TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
	}

	patch.Apply(&s.tasks[i])
	return nil
}

// Delete removes a task permanently, preserving the order of the rest.
func (s *MemoryTaskStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Count returns the number of tasks currently held.
func (s *MemoryTaskStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks), nil
}

// indexOf scans the ordered slice for the first task with the given id.
// Callers must hold the mutex.
func (s *MemoryTaskStore) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
