package dto

import "time"

// TaskResponse represents a task in API responses
// Decouples internal domain.Task from API contract
type TaskResponse struct {
	ID          string    `json:"id" example:"7d9f4c3a-1be2-4e5f-9a10-8c1d2e3f4a5b"`
	Title       string    `json:"title" example:"Prepare release notes"`
	Description string    `json:"description,omitempty" example:"Collect changes since v1.2"`
	Status      string    `json:"status" example:"new"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse wraps a list of tasks
type TaskListResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
	Total int             `json:"total" example:"2"`
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the payload for updating a task.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ImageURL    *string `json:"image_url"`
}
