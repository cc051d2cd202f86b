package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Canonical counter names. The counter set is open: Increment accepts
// any name and creates unseen counters at zero.
const (
	CounterRequestsTotal     = "requests_total"
	CounterRequestsSuccess   = "requests_success"
	CounterRequestsError     = "requests_error"
	CounterMessagesSent      = "queue_messages_sent"
	CounterMessagesProcessed = "queue_messages_processed"
	CounterMessagesFailed    = "queue_messages_failed"
	CounterDBOperations      = "db_operations"
)

// Store is a concurrency-safe counter and aggregate registry.
// A single mutex guards every counter and the response-time accumulator
// together, so a snapshot never observes a torn update (e.g. total
// incremented but success not yet).
type Store struct {
	mu sync.Mutex

	counters  map[string]int64
	respSum   float64
	respCount uint64

	startTime time.Time
	proc      *processProbe
}

// ApplicationSnapshot is a consistent point-in-time copy of the
// application counters plus derived rates.
type ApplicationSnapshot struct {
	Counters          map[string]int64 `json:"counters"`
	ResponseTimeSum   float64          `json:"response_time_sum"`
	ResponseTimeCount uint64           `json:"response_time_count"`
	ResponseTimeAvg   float64          `json:"response_time_avg"`
	SuccessRate       float64          `json:"success_rate"`
	ErrorRate         float64          `json:"error_rate"`
	Timestamp         time.Time        `json:"timestamp"`
}

// SystemSnapshot holds best-effort process-level metrics.
// Values are zero when the platform cannot supply them.
type SystemSnapshot struct {
	UptimeSeconds float64   `json:"uptime_seconds"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryMB      float64   `json:"memory_mb"`
	ThreadCount   int32     `json:"thread_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewStore creates an empty metrics store
func NewStore() *Store {
	return &Store{
		counters:  make(map[string]int64),
		startTime: time.Now(),
		proc:      newProcessProbe(),
	}
}

// Increment adds delta to the named counter, creating it at zero if unseen.
// Safe under unbounded concurrent callers.
func (s *Store) Increment(name string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[name] += delta
}

// RecordDuration adds one observation to the response-time accumulator.
// Sum and count are updated together under the same critical section.
func (s *Store) RecordDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.respSum += seconds
	s.respCount++
}

// Counter returns the current value of a single counter
func (s *Store) Counter(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[name]
}

// Application returns a consistent snapshot of all counters with
// derived success/error rates and average response time.
// Rates are zero when requests_total is zero; the average is zero when
// no durations were recorded.
func (s *Store) Application() ApplicationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ApplicationSnapshot{
		Counters:          make(map[string]int64, len(s.counters)),
		ResponseTimeSum:   s.respSum,
		ResponseTimeCount: s.respCount,
		Timestamp:         time.Now(),
	}
	for name, value := range s.counters {
		snap.Counters[name] = value
	}

	if s.respCount > 0 {
		snap.ResponseTimeAvg = s.respSum / float64(s.respCount)
	}

	total := s.counters[CounterRequestsTotal]
	if total > 0 {
		snap.SuccessRate = float64(s.counters[CounterRequestsSuccess]) / float64(total) * 100
		snap.ErrorRate = float64(s.counters[CounterRequestsError]) / float64(total) * 100
	}

	return snap
}

// System returns best-effort process-level metrics. It never fails;
// fields the platform cannot supply are left at zero.
func (s *Store) System() SystemSnapshot {
	snap := SystemSnapshot{
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		Timestamp:     time.Now(),
	}
	if s.proc != nil {
		s.proc.fill(&snap)
	}
	return snap
}

// Reset atomically zeroes every counter and the accumulator.
// Used only by the administrative reset endpoint.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = make(map[string]int64)
	s.respSum = 0
	s.respCount = 0
}

// WritePrometheus renders both snapshots in a Prometheus-style
// name{type="application|system"} value line format.
func (s *Store) WritePrometheus(w io.Writer) error {
	app := s.Application()
	sys := s.System()

	names := make([]string, 0, len(app.Counters))
	for name := range app.Counters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s{type=\"application\"} %d\n", name, app.Counters[name]); err != nil {
			return err
		}
	}

	appGauges := []struct {
		name  string
		value float64
	}{
		{"response_time_avg", app.ResponseTimeAvg},
		{"success_rate", app.SuccessRate},
		{"error_rate", app.ErrorRate},
	}
	for _, g := range appGauges {
		if _, err := fmt.Fprintf(w, "%s{type=\"application\"} %g\n", g.name, g.value); err != nil {
			return err
		}
	}

	sysGauges := []struct {
		name  string
		value float64
	}{
		{"uptime_seconds", sys.UptimeSeconds},
		{"cpu_percent", sys.CPUPercent},
		{"memory_mb", sys.MemoryMB},
		{"thread_count", float64(sys.ThreadCount)},
	}
	for _, g := range sysGauges {
		if _, err := fmt.Fprintf(w, "%s{type=\"system\"} %g\n", g.name, g.value); err != nil {
			return err
		}
	}

	return nil
}
