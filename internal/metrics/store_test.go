package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Increment(t *testing.T) {
	store := NewStore()

	store.Increment(CounterRequestsTotal, 1)
	store.Increment(CounterRequestsTotal, 2)
	store.Increment("custom_counter", 5)

	assert.Equal(t, int64(3), store.Counter(CounterRequestsTotal))
	assert.Equal(t, int64(5), store.Counter("custom_counter"))
	assert.Equal(t, int64(0), store.Counter("never_seen"))
}

func TestStore_ConcurrentIncrements(t *testing.T) {
	store := NewStore()

	const goroutines = 50
	const perGoroutine = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				store.Increment(CounterRequestsTotal, 1)
				store.Increment(CounterRequestsSuccess, 1)
				store.RecordDuration(0.001)
			}
		}()
	}
	wg.Wait()

	snap := store.Application()
	assert.Equal(t, int64(goroutines*perGoroutine), snap.Counters[CounterRequestsTotal])
	assert.Equal(t, int64(goroutines*perGoroutine), snap.Counters[CounterRequestsSuccess])
	assert.Equal(t, uint64(goroutines*perGoroutine), snap.ResponseTimeCount)
	assert.InDelta(t, 100.0, snap.SuccessRate, 0.001)
}

func TestStore_Rates(t *testing.T) {
	store := NewStore()

	store.Increment(CounterRequestsTotal, 10)
	store.Increment(CounterRequestsSuccess, 7)
	store.Increment(CounterRequestsError, 3)

	snap := store.Application()
	assert.InDelta(t, 70.0, snap.SuccessRate, 0.001)
	assert.InDelta(t, 30.0, snap.ErrorRate, 0.001)
}

func TestStore_RatesZeroWithoutRequests(t *testing.T) {
	store := NewStore()

	snap := store.Application()
	assert.Zero(t, snap.SuccessRate)
	assert.Zero(t, snap.ErrorRate)
	assert.Zero(t, snap.ResponseTimeAvg)
}

func TestStore_ResponseTimeAverage(t *testing.T) {
	store := NewStore()

	store.RecordDuration(0.1)
	store.RecordDuration(0.3)

	snap := store.Application()
	assert.InDelta(t, 0.4, snap.ResponseTimeSum, 1e-9)
	assert.Equal(t, uint64(2), snap.ResponseTimeCount)
	assert.InDelta(t, 0.2, snap.ResponseTimeAvg, 1e-9)
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()

	store.Increment(CounterRequestsTotal, 5)
	store.RecordDuration(1.5)
	store.Reset()

	snap := store.Application()
	assert.Empty(t, snap.Counters)
	assert.Zero(t, snap.ResponseTimeSum)
	assert.Zero(t, snap.ResponseTimeCount)
	assert.Zero(t, store.Counter(CounterRequestsTotal))
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	store := NewStore()
	store.Increment(CounterRequestsTotal, 1)

	snap := store.Application()
	snap.Counters[CounterRequestsTotal] = 999

	assert.Equal(t, int64(1), store.Counter(CounterRequestsTotal))
}

func TestStore_System(t *testing.T) {
	store := NewStore()

	snap := store.System()
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestStore_WritePrometheus(t *testing.T) {
	store := NewStore()
	store.Increment(CounterRequestsTotal, 4)
	store.Increment(CounterRequestsSuccess, 4)

	var sb strings.Builder
	require.NoError(t, store.WritePrometheus(&sb))
	out := sb.String()

	assert.Contains(t, out, `requests_total{type="application"} 4`)
	assert.Contains(t, out, `requests_success{type="application"} 4`)
	assert.Contains(t, out, `success_rate{type="application"} 100`)
	assert.Contains(t, out, `uptime_seconds{type="system"}`)
	assert.Contains(t, out, `thread_count{type="system"}`)

	// Counter lines come out sorted by name
	successIdx := strings.Index(out, "requests_success")
	totalIdx := strings.Index(out, "requests_total")
	assert.Less(t, successIdx, totalIdx)
}
