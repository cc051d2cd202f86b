package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/Hoddity/virt/internal/config"
)

// OfflineClient simulates queue operations without any network call.
// Send synthesizes a reproducible id from the body and timestamp,
// receive always returns an empty batch (offline mode never
// self-delivers), delete and stats return canned success values.
type OfflineClient struct {
	logger *slog.Logger

	// now is overridable so tests can pin the send timestamp
	now func() time.Time
}

// NewOfflineClient creates a client for the offline mode
func NewOfflineClient(logger *slog.Logger) *OfflineClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfflineClient{
		logger: logger.With("component", "queue_client", "mode", "offline"),
		now:    time.Now,
	}
}

// Send synthesizes a message id deterministic for a fixed body and
// timestamp pair.
func (c *OfflineClient) Send(ctx context.Context, queueName string, body any, opts SendOptions) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to serialize message body: %w", err)
	}

	ts := c.now().Unix()
	h := fnv.New32a()
	h.Write(encoded)

	messageID := fmt.Sprintf("offline-msg-%d-%08x", ts, h.Sum32())
	c.logger.Info("Simulated send", "queue", queueName, "message_id", messageID)
	return messageID, nil
}

func (c *OfflineClient) Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []Message {
	c.logger.Debug("Simulated receive", "queue", queueName)
	return nil
}

func (c *OfflineClient) Delete(ctx context.Context, queueName, receipt string) bool {
	c.logger.Debug("Simulated delete", "queue", queueName)
	return true
}

func (c *OfflineClient) Stats(ctx context.Context, queueName string) Stats {
	return Stats{QueueName: queueName, Enabled: true, Mode: string(config.QueueModeOffline)}
}

func (c *OfflineClient) Enabled() bool { return true }

func (c *OfflineClient) Mode() config.QueueMode { return config.QueueModeOffline }
