package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Hoddity/virt/internal/config"
)

// RedisConfig holds configuration for the Redis queue backend
type RedisConfig struct {
	URL string

	// VisibilityTimeout bounds how long a received-but-undeleted message
	// stays hidden before it becomes redeliverable
	VisibilityTimeout time.Duration
}

// RedisClient implements Client on top of Redis, used as the online
// backend for local development. A list holds ready messages, a sorted
// set keyed by receipt tracks in-flight deliveries with their
// visibility deadline, and a second sorted set holds delayed messages.
type RedisClient struct {
	rdb               *redis.Client
	visibilityTimeout time.Duration
	logger            *slog.Logger
}

// storedMessage is the Redis payload format
type storedMessage struct {
	ID         string            `json:"id"`
	Body       json.RawMessage   `json:"body"`
	Attributes map[string]string `json:"attributes,omitempty"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// NewRedisClient creates a Redis-backed queue client and verifies the
// connection.
func NewRedisClient(cfg RedisConfig, logger *slog.Logger) (*RedisClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.VisibilityTimeout == 0 {
		cfg.VisibilityTimeout = config.DefaultVisibilityTimeout
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{
		rdb:               rdb,
		visibilityTimeout: cfg.VisibilityTimeout,
		logger:            logger.With("component", "queue_client", "mode", "online", "backend", "redis"),
	}, nil
}

// Send serializes body and enqueues it, honoring the delay
func (c *RedisClient) Send(ctx context.Context, queueName string, body any, opts SendOptions) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to serialize message body: %w", err)
	}

	attrs := prepareAttributes(opts.Attributes)
	flat := make(map[string]string, len(attrs))
	for key, attr := range attrs {
		flat[key] = attr.Value
	}

	stored := storedMessage{
		ID:         uuid.New().String(),
		Body:       encoded,
		Attributes: flat,
		EnqueuedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to serialize message: %w", err)
	}

	if opts.DelaySeconds > 0 {
		readyAt := time.Now().Add(time.Duration(opts.DelaySeconds) * time.Second)
		err = c.rdb.ZAdd(ctx, delayedKey(queueName), redis.Z{
			Score:  float64(readyAt.Unix()),
			Member: payload,
		}).Err()
	} else {
		err = c.rdb.LPush(ctx, readyKey(queueName), payload).Err()
	}
	if err != nil {
		c.logger.Error("Failed to send message", "queue", queueName, "error", err)
		return "", fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}

	c.logger.Info("Message sent", "queue", queueName, "message_id", stored.ID)
	return stored.ID, nil
}

// Receive pops up to maxMessages ready messages, moving each into the
// in-flight set under a fresh receipt. Due delayed messages and expired
// in-flight deliveries are promoted back to ready first. Failures are
// swallowed into an empty batch.
func (c *RedisClient) Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []Message {
	c.promoteDelayed(ctx, queueName)
	c.reapExpired(ctx, queueName)

	var messages []Message
	for int32(len(messages)) < maxMessages {
		var payload string
		var err error

		if len(messages) == 0 && waitTime > 0 {
			// Block only for the first message of a batch
			var res []string
			res, err = c.rdb.BRPop(ctx, waitTime, readyKey(queueName)).Result()
			if err == nil && len(res) == 2 {
				payload = res[1]
			}
		} else {
			payload, err = c.rdb.RPop(ctx, readyKey(queueName)).Result()
		}

		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.logger.Error("Failed to receive messages", "queue", queueName, "error", err)
			}
			break
		}
		if payload == "" {
			break
		}

		msg, ok := c.markInFlight(ctx, queueName, payload)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}

	if len(messages) > 0 {
		c.logger.Info("Received messages", "queue", queueName, "count", len(messages))
	}
	return messages
}

// Delete removes one in-flight delivery by receipt. A receipt that is
// already gone reports success.
func (c *RedisClient) Delete(ctx context.Context, queueName, receipt string) bool {
	pipe := c.rdb.TxPipeline()
	pipe.ZRem(ctx, inflightKey(queueName), receipt)
	pipe.HDel(ctx, inflightDataKey(queueName), receipt)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to delete message", "queue", queueName, "error", err)
		return false
	}
	return true
}

// Stats reports list and sorted-set cardinalities
func (c *RedisClient) Stats(ctx context.Context, queueName string) Stats {
	stats := Stats{QueueName: queueName, Enabled: true, Mode: string(config.QueueModeOnline)}

	if n, err := c.rdb.LLen(ctx, readyKey(queueName)).Result(); err == nil {
		stats.Available = n
	}
	if n, err := c.rdb.ZCard(ctx, inflightKey(queueName)).Result(); err == nil {
		stats.InFlight = n
	}
	if n, err := c.rdb.ZCard(ctx, delayedKey(queueName)).Result(); err == nil {
		stats.Delayed = n
	}

	return stats
}

func (c *RedisClient) Enabled() bool { return true }

func (c *RedisClient) Mode() config.QueueMode { return config.QueueModeOnline }

// Close releases the Redis connection
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// markInFlight assigns a receipt to a popped payload and records its
// visibility deadline.
func (c *RedisClient) markInFlight(ctx context.Context, queueName, payload string) (Message, bool) {
	var stored storedMessage
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		c.logger.Warn("Dropping malformed queue payload", "queue", queueName, "error", err)
		return Message{}, false
	}

	receipt := uuid.New().String()
	deadline := time.Now().Add(c.visibilityTimeout)

	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, inflightKey(queueName), redis.Z{Score: float64(deadline.Unix()), Member: receipt})
	pipe.HSet(ctx, inflightDataKey(queueName), receipt, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to mark message in flight", "queue", queueName, "error", err)
		return Message{}, false
	}

	return Message{
		ID:         stored.ID,
		Body:       []byte(stored.Body),
		Receipt:    receipt,
		Attributes: stored.Attributes,
	}, true
}

// promoteDelayed moves due delayed messages onto the ready list
func (c *RedisClient) promoteDelayed(ctx context.Context, queueName string) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := c.rdb.ZRangeByScore(ctx, delayedKey(queueName), &redis.ZRangeBy{
		Min: "-inf", Max: now,
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	pipe := c.rdb.TxPipeline()
	for _, payload := range due {
		pipe.ZRem(ctx, delayedKey(queueName), payload)
		pipe.LPush(ctx, readyKey(queueName), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to promote delayed messages", "queue", queueName, "error", err)
	}
}

// reapExpired requeues in-flight deliveries whose visibility deadline
// passed without a delete, making them redeliverable.
func (c *RedisClient) reapExpired(ctx context.Context, queueName string) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	expired, err := c.rdb.ZRangeByScore(ctx, inflightKey(queueName), &redis.ZRangeBy{
		Min: "-inf", Max: now,
	}).Result()
	if err != nil || len(expired) == 0 {
		return
	}

	for _, receipt := range expired {
		payload, err := c.rdb.HGet(ctx, inflightDataKey(queueName), receipt).Result()
		if err != nil {
			continue
		}

		pipe := c.rdb.TxPipeline()
		pipe.LPush(ctx, readyKey(queueName), payload)
		pipe.ZRem(ctx, inflightKey(queueName), receipt)
		pipe.HDel(ctx, inflightDataKey(queueName), receipt)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Error("Failed to requeue expired message", "queue", queueName, "error", err)
		}
	}
}

func readyKey(queueName string) string        { return "virt:queue:" + queueName }
func delayedKey(queueName string) string      { return "virt:queue:" + queueName + ":delayed" }
func inflightKey(queueName string) string     { return "virt:queue:" + queueName + ":inflight" }
func inflightDataKey(queueName string) string { return "virt:queue:" + queueName + ":inflight:data" }
