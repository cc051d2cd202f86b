package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/api/dto"
	"github.com/Hoddity/virt/internal/metrics"
)

// MetricsHandler exposes the metrics store over HTTP
type MetricsHandler struct {
	store *metrics.Store
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(store *metrics.Store) *MetricsHandler {
	return &MetricsHandler{store: store}
}

// GetMetrics returns both snapshots as JSON
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MetricsResponse{
		Application: h.store.Application(),
		System:      h.store.System(),
	})
}

// GetPrometheus renders the metrics in a Prometheus-style line format
func (h *MetricsHandler) GetPrometheus(c *gin.Context) {
	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.store.WritePrometheus(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Reset zeroes every counter and the response-time accumulator
func (h *MetricsHandler) Reset(c *gin.Context) {
	h.store.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
