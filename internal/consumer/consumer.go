package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/queue"
)

// State describes the consumer lifecycle
type State int32

const (
	StateStopped State = iota
	StateRunning
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	}
	return "unknown"
}

// Consumer polls the queue, dispatches each message and deletes the
// ones that were handled. Failed messages are left in flight so the
// backend redelivers them after the visibility timeout.
type Consumer struct {
	client     queue.Client
	dispatcher *Dispatcher
	metrics    *metrics.Store
	cfg        config.ConsumerConfig
	queueName  string
	logger     *slog.Logger

	state  atomic.Int32
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// Statistics
	cycles atomic.Int64
}

// New creates a consumer bound to one queue
func New(
	client queue.Client,
	dispatcher *Dispatcher,
	store *metrics.Store,
	cfg config.ConsumerConfig,
	queueName string,
	logger *slog.Logger,
) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		client:     client,
		dispatcher: dispatcher,
		metrics:    store,
		cfg:        cfg,
		queueName:  queueName,
		logger:     logger.With("component", "consumer", "queue", queueName),
	}
}

// State reports the current lifecycle state
func (c *Consumer) State() State {
	return State(c.state.Load())
}

// Start launches the poll loop in its own goroutine. Fails when the
// queue client cannot serve receives or the loop is already running.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.client.Enabled() {
		return domain.ErrQueueDisabled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return domain.ErrConsumerRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	c.logger.Info("Starting consumer",
		"mode", c.client.Mode(),
		"max_messages", c.cfg.MaxMessages,
		"wait_time", c.cfg.WaitTime,
		"handlers", c.dispatcher.Types(),
	)

	go c.run(loopCtx)
	return nil
}

// Stop requests cancellation and waits up to the shutdown grace for the
// current cycle to finish. Stopping an already stopped consumer is a
// no-op.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if !c.state.CompareAndSwap(int32(StateRunning), int32(StateCancelling)) {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	c.logger.Info("Stopping consumer")
	cancel()

	select {
	case <-done:
		c.logger.Info("Consumer stopped", "cycles", c.cycles.Load())
		return nil
	case <-time.After(c.cfg.ShutdownGrace):
		c.logger.Warn("Consumer did not stop within grace period", "grace", c.cfg.ShutdownGrace)
		return fmt.Errorf("consumer did not stop within %s", c.cfg.ShutdownGrace)
	}
}

// run is the poll loop. It exits only on context cancellation.
func (c *Consumer) run(ctx context.Context) {
	defer func() {
		c.state.Store(int32(StateStopped))
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		processed, err := c.cycle(ctx)
		c.cycles.Add(1)

		if err != nil {
			c.logger.Error("Consumer cycle failed", "error", err)
			if !c.sleep(ctx, c.cfg.ErrorBackoff) {
				return
			}
			continue
		}

		if processed == 0 {
			if !c.sleep(ctx, c.cfg.IdleInterval) {
				return
			}
		}
	}
}

// cycle runs one poll-dispatch-delete pass. A panic escaping the
// dispatch path is converted to an error so the loop backs off instead
// of dying.
func (c *Consumer) cycle(ctx context.Context) (processed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("consumer cycle panicked: %v", r)
		}
	}()

	messages := c.client.Receive(ctx, c.queueName, c.cfg.MaxMessages, c.cfg.WaitTime)

	for _, msg := range messages {
		if ctx.Err() != nil {
			return processed, nil
		}
		c.handle(ctx, msg)
		processed++
	}

	return processed, nil
}

// handle dispatches one message and deletes it on success. A failed
// handler leaves the message in flight for redelivery.
func (c *Consumer) handle(ctx context.Context, msg queue.Message) {
	if err := c.dispatcher.Dispatch(ctx, msg); err != nil {
		c.metrics.Increment(metrics.CounterMessagesFailed, 1)
		c.logger.Error("Failed to process message",
			"message_id", msg.ID,
			"error", err,
		)
		return
	}

	if !c.client.Delete(ctx, c.queueName, msg.Receipt) {
		c.logger.Warn("Failed to delete processed message", "message_id", msg.ID)
	}
	c.metrics.Increment(metrics.CounterMessagesProcessed, 1)

	c.logger.Debug("Processed message", "message_id", msg.ID)
}

// sleep waits for d or until cancellation, reporting false when the
// context ended first.
func (c *Consumer) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
