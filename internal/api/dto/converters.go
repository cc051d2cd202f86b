package dto

import (
	"time"

	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/queue"
)

// ToTaskResponse converts a domain task to its API representation
func ToTaskResponse(task *domain.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		ImageURL:    task.ImageURL,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a list of domain tasks
func ToTaskListResponse(tasks []*domain.Task) TaskListResponse {
	converted := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		converted = append(converted, ToTaskResponse(task))
	}
	return TaskListResponse{Tasks: converted, Total: len(converted)}
}

// ToQueueStatsResponse converts queue statistics, dropping zero
// timestamps from the payload.
func ToQueueStatsResponse(stats queue.Stats) QueueStatsResponse {
	resp := QueueStatsResponse{
		QueueName: stats.QueueName,
		Enabled:   stats.Enabled,
		Mode:      stats.Mode,
		Available: stats.Available,
		InFlight:  stats.InFlight,
		Delayed:   stats.Delayed,
	}
	resp.CreatedAt = nonZeroTime(stats.CreatedAt)
	resp.ModifiedAt = nonZeroTime(stats.ModifiedAt)
	return resp
}

func nonZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
