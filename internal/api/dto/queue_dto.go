package dto

import (
	"encoding/json"
	"time"
)

// SendMessageRequest is the payload for publishing a typed message
type SendMessageRequest struct {
	Type         string          `json:"type" binding:"required"`
	Data         json.RawMessage `json:"data"`
	DelaySeconds int32           `json:"delay_seconds" binding:"gte=0,lte=900"`
}

// SendMessageResponse confirms an accepted message
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	Queue     string `json:"queue"`
}

// QueueStatsResponse mirrors best-effort queue statistics
type QueueStatsResponse struct {
	QueueName  string     `json:"queue_name"`
	Enabled    bool       `json:"enabled"`
	Mode       string     `json:"mode"`
	Available  int64      `json:"messages_available"`
	InFlight   int64      `json:"messages_in_flight"`
	Delayed    int64      `json:"messages_delayed"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}
