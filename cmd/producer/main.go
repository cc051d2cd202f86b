package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	appconfig "github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/queue"
)

// producer is a small CLI that publishes one typed message to the
// configured queue, mainly for exercising the consumer locally.
func main() {
	var (
		msgType   = flag.String("type", "create_task", "message type routed by the consumer")
		data      = flag.String("data", "{}", "JSON payload for the message")
		queueName = flag.String("queue", "", "queue name (defaults to the configured queue)")
		delay     = flag.Int("delay", 0, "delivery delay in seconds")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	if *queueName == "" {
		*queueName = cfg.Queue.DefaultQueue
	}
	if !json.Valid([]byte(*data)) {
		fmt.Fprintln(os.Stderr, "-data must be valid JSON")
		os.Exit(1)
	}

	ctx := context.Background()

	var client queue.Client
	switch cfg.Queue.Mode() {
	case appconfig.QueueModeOffline:
		client = queue.NewOfflineClient(logger)
	case appconfig.QueueModeOnline:
		if cfg.Queue.Backend == "redis" {
			client, err = queue.NewRedisClient(queue.RedisConfig{URL: cfg.Queue.RedisURL}, logger)
		} else {
			client, err = queue.NewSQSClient(ctx, queue.SQSConfig{
				AccessKeyID:     cfg.Queue.AccessKeyID,
				SecretAccessKey: cfg.Queue.SecretAccessKey,
				Endpoint:        cfg.Queue.Endpoint,
				Prefix:          cfg.Queue.Prefix,
				Region:          cfg.Queue.Region,
			}, logger)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to initialize queue client:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "queue is not configured")
		os.Exit(1)
	}

	envelope := queue.Envelope{Type: *msgType, Data: json.RawMessage(*data)}
	messageID, err := client.Send(ctx, *queueName, envelope, queue.SendOptions{
		DelaySeconds: int32(*delay),
		Attributes:   map[string]any{"MessageType": *msgType},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to send message:", err)
		os.Exit(1)
	}

	fmt.Printf("sent %s message %s to %s\n", *msgType, messageID, *queueName)
}
