package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/storage"
)

// Message types handled by the task consumer
const (
	TypeCreateTask = "create_task"
	TypeUpdateTask = "update_task"
	TypeDeleteTask = "delete_task"
)

type createTaskPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskPayload struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ImageURL    *string `json:"image_url"`
}

type deleteTaskPayload struct {
	ID string `json:"id"`
}

// TaskHandlers applies queue-driven task mutations to the repository.
// Malformed payloads are dropped without error so they are not
// redelivered; storage failures propagate so the backend retries.
type TaskHandlers struct {
	repo    storage.TaskRepository
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewTaskHandlers creates the task mutation handlers
func NewTaskHandlers(repo storage.TaskRepository, store *metrics.Store, logger *slog.Logger) *TaskHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandlers{
		repo:    repo,
		metrics: store,
		logger:  logger.With("component", "task_handlers"),
	}
}

// Register binds all task mutation types on the dispatcher
func (h *TaskHandlers) Register(d *Dispatcher) {
	d.Register(TypeCreateTask, h.HandleCreate)
	d.Register(TypeUpdateTask, h.HandleUpdate)
	d.Register(TypeDeleteTask, h.HandleDelete)
}

// HandleCreate creates a task from a queue message. A caller-supplied
// id keeps redeliveries idempotent; without one a fresh id is
// generated.
func (h *TaskHandlers) HandleCreate(ctx context.Context, data json.RawMessage) error {
	var payload createTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Warn("Dropping malformed create_task payload", "error", err)
		return nil
	}
	if payload.Title == "" {
		h.logger.Warn("Dropping create_task payload without title")
		return nil
	}

	task := domain.NewTask(payload.Title, payload.Description)
	if payload.ID != "" {
		task.ID = payload.ID
	}

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			// Redelivered create, the task already exists
			h.logger.Debug("Skipping duplicate create_task", "task_id", task.ID)
			return nil
		}
		return fmt.Errorf("failed to create task %s: %w", task.ID, err)
	}

	h.logger.Info("Created task from queue", "task_id", task.ID)
	return nil
}

// HandleUpdate applies the non-nil payload fields to an existing task
func (h *TaskHandlers) HandleUpdate(ctx context.Context, data json.RawMessage) error {
	var payload updateTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Warn("Dropping malformed update_task payload", "error", err)
		return nil
	}
	if payload.ID == "" {
		h.logger.Warn("Dropping update_task payload without id")
		return nil
	}

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	task, err := h.repo.GetByID(ctx, payload.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			h.logger.Warn("Dropping update_task for unknown task", "task_id", payload.ID)
			return nil
		}
		return fmt.Errorf("failed to load task %s: %w", payload.ID, err)
	}

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = *payload.Description
	}
	if payload.ImageURL != nil {
		task.ImageURL = *payload.ImageURL
	}
	if payload.Status != nil {
		status := domain.TaskStatus(*payload.Status)
		if !domain.ValidStatus(status) {
			h.logger.Warn("Dropping update_task with unknown status",
				"task_id", payload.ID,
				"status", *payload.Status,
			)
			return nil
		}
		task.Status = status
	}
	task.UpdatedAt = time.Now().UTC()

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task %s: %w", payload.ID, err)
	}

	h.logger.Info("Updated task from queue", "task_id", payload.ID)
	return nil
}

// HandleDelete removes a task. Deleting an already-deleted task is
// treated as success so redeliveries stay idempotent.
func (h *TaskHandlers) HandleDelete(ctx context.Context, data json.RawMessage) error {
	var payload deleteTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Warn("Dropping malformed delete_task payload", "error", err)
		return nil
	}
	if payload.ID == "" {
		h.logger.Warn("Dropping delete_task payload without id")
		return nil
	}

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Delete(ctx, payload.ID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			h.logger.Debug("Skipping delete_task for unknown task", "task_id", payload.ID)
			return nil
		}
		return fmt.Errorf("failed to delete task %s: %w", payload.ID, err)
	}

	h.logger.Info("Deleted task from queue", "task_id", payload.ID)
	return nil
}
