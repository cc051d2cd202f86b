package storage

import (
	"context"

	"github.com/Hoddity/virt/internal/domain"
)

// ListFilter narrows List results
type ListFilter struct {
	// Status keeps only tasks in one state when set
	Status *domain.TaskStatus

	// Limit caps the number of returned tasks, 0 means no cap
	Limit int64

	// Offset skips that many tasks from the start of the result
	Offset int64
}

// TaskRepository defines the interface for task storage
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its id
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// List returns tasks matching the filter, newest first
	List(ctx context.Context, filter ListFilter) ([]*domain.Task, error)

	// Update replaces an existing task
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its id
	Delete(ctx context.Context, id string) error

	// Count returns the total number of stored tasks
	Count(ctx context.Context) int64
}
