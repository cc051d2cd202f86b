package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/storage"
)

// TaskRepository is an in-memory implementation of task storage, used
// by tests and by deployments that run without MongoDB.
type TaskRepository struct {
	mu   sync.RWMutex
	data map[string]*domain.Task // key: task ID
}

// NewTaskRepository creates a new in-memory task repository
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		data: make(map[string]*domain.Task),
	}
}

// Create persists a new task
// Thread-safe for concurrent writes
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[task.ID]; exists {
		return domain.ErrInvalidInput
	}

	stored := *task
	r.data[task.ID] = &stored
	return nil
}

// GetByID retrieves a task by its id
// Thread-safe for concurrent reads
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.data[id]
	if !exists {
		return nil, domain.ErrTaskNotFound
	}

	found := *task
	return &found, nil
}

// List returns tasks matching the filter, newest first
func (r *TaskRepository) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(r.data))
	for _, task := range r.data {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= int64(len(tasks)) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(tasks)) {
		tasks = tasks[:filter.Limit]
	}

	return tasks, nil
}

// Update replaces an existing task
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[task.ID]; !exists {
		return domain.ErrTaskNotFound
	}

	stored := *task
	r.data[task.ID] = &stored
	return nil
}

// Delete removes a task by its id
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return domain.ErrTaskNotFound
	}

	delete(r.data, id)
	return nil
}

// Count returns the total number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.data))
}

// Clear removes all tasks from the repository
// Useful for testing
func (r *TaskRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make(map[string]*domain.Task)
}
