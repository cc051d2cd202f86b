package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/api/dto"
	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/queue"
)

// QueueHandler handles message publishing and queue statistics
type QueueHandler struct {
	client    queue.Client
	queueName string
	metrics   *metrics.Store
}

// NewQueueHandler creates a new queue handler bound to one queue
func NewQueueHandler(client queue.Client, queueName string, store *metrics.Store) *QueueHandler {
	return &QueueHandler{
		client:    client,
		queueName: queueName,
		metrics:   store,
	}
}

// SendMessage publishes a typed message to the queue. The consumer
// picks it up and routes it by type.
func (h *QueueHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	envelope := queue.Envelope{Type: req.Type, Data: req.Data}
	opts := queue.SendOptions{
		DelaySeconds: req.DelaySeconds,
		Attributes:   map[string]any{"MessageType": req.Type},
	}

	messageID, err := h.client.Send(c.Request.Context(), h.queueName, envelope, opts)
	if err != nil {
		if errors.Is(err, domain.ErrQueueDisabled) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error:     "Queue unavailable",
				Message:   "Message queue is not configured",
				Timestamp: time.Now(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to send message",
			Message:   "Internal server error occurred while sending the message",
			Timestamp: time.Now(),
		})
		return
	}

	h.metrics.Increment(metrics.CounterMessagesSent, 1)
	c.JSON(http.StatusAccepted, dto.SendMessageResponse{
		MessageID: messageID,
		Queue:     h.queueName,
	})
}

// GetStats returns best-effort queue statistics
func (h *QueueHandler) GetStats(c *gin.Context) {
	stats := h.client.Stats(c.Request.Context(), h.queueName)
	c.JSON(http.StatusOK, dto.ToQueueStatsResponse(stats))
}
