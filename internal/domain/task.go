package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Task represents a single tracked task
// This is the unit the CRUD API and the queue-driven handlers operate on
type Task struct {
	// ID is the unique identifier for the task, generated at creation
	ID string `json:"id" bson:"_id"`

	// Title is the short human-readable name of the task
	Title string `json:"title" bson:"title"`

	// Description is optional free-form detail
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	// Status is one of new / in_progress / done
	Status TaskStatus `json:"status" bson:"status"`

	// ImageURL points to an attachment uploaded to object storage, if any
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewTask creates a task with a fresh id and new status
func NewTask(title, description string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      TaskStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidStatus reports whether s is a known task status
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
