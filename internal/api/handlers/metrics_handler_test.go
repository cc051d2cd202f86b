package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoddity/virt/internal/api/dto"
	"github.com/Hoddity/virt/internal/metrics"
)

func TestMetricsHandler_GetMetrics(t *testing.T) {
	store := metrics.NewStore()
	store.Increment(metrics.CounterRequestsTotal, 4)
	store.Increment(metrics.CounterRequestsSuccess, 3)
	store.Increment(metrics.CounterRequestsError, 1)
	store.RecordDuration(0.2)

	handler := NewMetricsHandler(store)
	router, w := setupGinTest()
	router.GET("/metrics", handler.GetMetrics)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(4), response.Application.Counters[metrics.CounterRequestsTotal])
	assert.InDelta(t, 75.0, response.Application.SuccessRate, 0.001)
	assert.InDelta(t, 25.0, response.Application.ErrorRate, 0.001)
	assert.InDelta(t, 0.2, response.Application.ResponseTimeAvg, 1e-9)
	assert.GreaterOrEqual(t, response.System.UptimeSeconds, 0.0)
}

func TestMetricsHandler_GetPrometheus(t *testing.T) {
	store := metrics.NewStore()
	store.Increment(metrics.CounterMessagesProcessed, 7)

	handler := NewMetricsHandler(store)
	router, w := setupGinTest()
	router.GET("/metrics", handler.GetPrometheus)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), `queue_messages_processed{type="application"} 7`)
	assert.Contains(t, w.Body.String(), `uptime_seconds{type="system"}`)
}

func TestMetricsHandler_Reset(t *testing.T) {
	store := metrics.NewStore()
	store.Increment(metrics.CounterRequestsTotal, 9)

	handler := NewMetricsHandler(store)
	router, w := setupGinTest()
	router.POST("/metrics/reset", handler.Reset)

	req := httptest.NewRequest(http.MethodPost, "/metrics/reset", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, store.Counter(metrics.CounterRequestsTotal))
}
