package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hoddity/virt/internal/metrics"
)

// Tracing headers attached to every response
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderResponseTime = "X-Response-Time"
)

// MetricsMiddleware counts every request into the metrics store and
// stamps tracing headers. A response counts as success below status
// 400 and as error at 400 and above; the total is incremented either
// way under the same registry so the rates stay consistent.
func MetricsMiddleware(store *metrics.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Writer.Header().Set(HeaderRequestID, uuid.New().String())
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: start}

		c.Next()

		duration := time.Since(start)
		store.Increment(metrics.CounterRequestsTotal, 1)
		if c.Writer.Status() < 400 {
			store.Increment(metrics.CounterRequestsSuccess, 1)
		} else {
			store.Increment(metrics.CounterRequestsError, 1)
		}
		store.RecordDuration(duration.Seconds())
	}
}

// timedWriter injects the response-time header just before the status
// line is flushed, the last point at which headers can still change.
type timedWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timedWriter) WriteHeader(code int) {
	if !w.Written() {
		w.Header().Set(HeaderResponseTime, fmt.Sprintf("%.6fs", time.Since(w.start).Seconds()))
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(w.Status())
	}
	return w.ResponseWriter.Write(b)
}
