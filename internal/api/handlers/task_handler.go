package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/api/dto"
	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/storage"
)

// TaskHandler handles task CRUD requests
type TaskHandler struct {
	repo    storage.TaskRepository
	metrics *metrics.Store
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(repo storage.TaskRepository, store *metrics.Store) *TaskHandler {
	return &TaskHandler{
		repo:    repo,
		metrics: store,
	}
}

// CreateTask creates a task from the request payload
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	task := domain.NewTask(req.Title, req.Description)

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to create task",
			Message:   "Internal server error occurred while storing the task",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// ListTasks returns tasks, optionally filtered by status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter := storage.ListFilter{}

	if raw := c.Query("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !domain.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:     "Invalid request",
				Message:   "Unknown status: " + raw,
				Timestamp: time.Now(),
			})
			return
		}
		filter.Status = &status
	}
	filter.Limit = parseQueryInt(c, "limit")
	filter.Offset = parseQueryInt(c, "offset")

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	tasks, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to retrieve tasks",
			Message:   "Internal server error occurred while fetching tasks",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns one task by id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := c.Param("id")

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// UpdateTask applies the non-nil fields of the payload to an existing
// task and bumps its updated_at timestamp.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.ImageURL != nil {
		task.ImageURL = *req.ImageURL
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !domain.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:     "Invalid request",
				Message:   "Unknown status: " + *req.Status,
				Timestamp: time.Now(),
			})
			return
		}
		task.Status = status
	}
	task.UpdatedAt = time.Now().UTC()

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Update(c.Request.Context(), task); err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// DeleteTask removes one task by id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")

	h.metrics.Increment(metrics.CounterDBOperations, 1)
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) writeRepoError(c *gin.Context, err error, id string) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:     "Task not found",
			Message:   "No task found with id: " + id,
			Timestamp: time.Now(),
		})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "Task id is required",
			Timestamp: time.Now(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to access task",
			Message:   "Internal server error occurred",
			Timestamp: time.Now(),
		})
	}
}

func parseQueryInt(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
