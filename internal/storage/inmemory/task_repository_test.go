package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/storage"
)

func TestTaskRepository_CreateAndGet(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task := domain.NewTask("Write docs", "README first")
	require.NoError(t, repo.Create(ctx, task))

	assert.Equal(t, int64(1), repo.Count(ctx))

	retrieved, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, retrieved.Title)
	assert.Equal(t, task.Status, retrieved.Status)
}

func TestTaskRepository_CreateDuplicate(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task := domain.NewTask("once", "")
	require.NoError(t, repo.Create(ctx, task))
	assert.ErrorIs(t, repo.Create(ctx, task), domain.ErrInvalidInput)
}

func TestTaskRepository_CreateInvalid(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	assert.ErrorIs(t, repo.Create(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, repo.Create(ctx, &domain.Task{}), domain.ErrInvalidInput)
}

func TestTaskRepository_GetMissing(t *testing.T) {
	repo := NewTaskRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_StoredCopyIsIsolated(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task := domain.NewTask("original", "")
	require.NoError(t, repo.Create(ctx, task))

	// Mutating the caller's struct must not leak into the store
	task.Title = "mutated"

	retrieved, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", retrieved.Title)
}

func TestTaskRepository_List(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		task := domain.NewTask(fmt.Sprintf("task-%d", i), "")
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, task))
	}

	tasks, err := repo.List(ctx, storage.ListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Newest first
	assert.Equal(t, "task-2", tasks[0].Title)
	assert.Equal(t, "task-0", tasks[2].Title)
}

func TestTaskRepository_ListByStatus(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	open := domain.NewTask("open", "")
	require.NoError(t, repo.Create(ctx, open))

	done := domain.NewTask("done", "")
	done.Status = domain.TaskStatusDone
	require.NoError(t, repo.Create(ctx, done))

	status := domain.TaskStatusDone
	tasks, err := repo.List(ctx, storage.ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Title)
}

func TestTaskRepository_ListLimitOffset(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		task := domain.NewTask(fmt.Sprintf("task-%d", i), "")
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, task))
	}

	tasks, err := repo.List(ctx, storage.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "task-3", tasks[0].Title)
	assert.Equal(t, "task-2", tasks[1].Title)

	// Offset past the end yields an empty list
	tasks, err = repo.List(ctx, storage.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_Update(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task := domain.NewTask("before", "")
	require.NoError(t, repo.Create(ctx, task))

	task.Title = "after"
	task.Status = domain.TaskStatusInProgress
	require.NoError(t, repo.Update(ctx, task))

	updated, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
}

func TestTaskRepository_UpdateMissing(t *testing.T) {
	repo := NewTaskRepository()

	task := domain.NewTask("ghost", "")
	assert.ErrorIs(t, repo.Update(context.Background(), task), domain.ErrTaskNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task := domain.NewTask("temp", "")
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.Delete(ctx, task.ID))
	assert.Zero(t, repo.Count(ctx))

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), domain.ErrTaskNotFound)
}

func TestTaskRepository_ConcurrentAccess(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			task := domain.NewTask(fmt.Sprintf("task-%d", n), "")
			_ = repo.Create(ctx, task)
			_, _ = repo.List(ctx, storage.ListFilter{})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(20), repo.Count(ctx))
}

func TestTaskRepository_Clear(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.NewTask("a", "")))
	repo.Clear()
	assert.Zero(t, repo.Count(ctx))
}
