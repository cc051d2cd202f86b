package dto

import "time"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"Task not found"`
	Message   string    `json:"message" example:"No task found with id: 7d9f..."`
	Timestamp time.Time `json:"timestamp" example:"2025-01-18T12:34:56Z"`
}
