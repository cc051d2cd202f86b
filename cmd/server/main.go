package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hoddity/virt/internal/api"
	appconfig "github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/consumer"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/objstore"
	"github.com/Hoddity/virt/internal/queue"
	"github.com/Hoddity/virt/internal/storage"
	"github.com/Hoddity/virt/internal/storage/inmemory"
	"github.com/Hoddity/virt/internal/storage/mongodb"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting task tracker backend",
		slog.String("service", "server"),
		slog.String("version", "1.0.0"),
	)

	// Load configuration from environment
	cfg, err := appconfig.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize task storage
	var taskRepo storage.TaskRepository
	switch cfg.Storage.Type {
	case "mongodb":
		slog.Info("Using MongoDB storage", "database", cfg.Storage.MongoDatabase)
		mongoRepo, err := mongodb.NewTaskRepository(cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer mongoRepo.Close(context.Background())
		taskRepo = mongoRepo
	default:
		slog.Info("Using in-memory storage")
		taskRepo = inmemory.NewTaskRepository()
	}

	// Initialize queue client according to the derived mode
	queueClient := buildQueueClient(ctx, cfg, logger)
	slog.Info("Queue client initialized",
		"mode", queueClient.Mode(),
		"queue", cfg.Queue.DefaultQueue,
	)

	// Initialize object storage for uploads
	var uploader objstore.Uploader
	s3Uploader, err := objstore.NewS3Uploader(ctx, cfg.ObjectStorage, logger)
	if err != nil {
		if err != objstore.ErrNotConfigured {
			slog.Error("Failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		slog.Info("Object storage not configured, uploads disabled")
		uploader = objstore.DisabledUploader{}
	} else {
		uploader = s3Uploader
	}

	// Metrics registry shared by middleware, handlers and the consumer
	store := metrics.NewStore()

	// Wire queue-driven task mutations into the consumer
	dispatcher := consumer.NewDispatcher(logger)
	consumer.NewTaskHandlers(taskRepo, store, logger).Register(dispatcher)

	taskConsumer := consumer.New(queueClient, dispatcher, store, cfg.Consumer, cfg.Queue.DefaultQueue, logger)
	if queueClient.Enabled() {
		if err := taskConsumer.Start(ctx); err != nil {
			slog.Error("Failed to start consumer", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("Queue disabled, consumer not started")
	}

	// Create API router with handlers wired to dependencies
	router := api.NewRouter(taskRepo, queueClient, cfg.Queue.DefaultQueue, store, uploader)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")

	// Stop the consumer before the server so in-flight messages finish
	if err := taskConsumer.Stop(); err != nil {
		slog.Warn("Consumer shutdown incomplete", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Consumer.ShutdownGrace)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}

// buildQueueClient selects the queue client implementation from the
// derived mode and configured backend.
func buildQueueClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) queue.Client {
	switch cfg.Queue.Mode() {
	case appconfig.QueueModeOffline:
		return queue.NewOfflineClient(logger)
	case appconfig.QueueModeOnline:
		if cfg.Queue.Backend == "redis" {
			client, err := queue.NewRedisClient(queue.RedisConfig{
				URL:               cfg.Queue.RedisURL,
				VisibilityTimeout: cfg.Consumer.VisibilityTimeout,
			}, logger)
			if err != nil {
				slog.Error("Failed to connect to Redis queue", "error", err)
				os.Exit(1)
			}
			return client
		}
		client, err := queue.NewSQSClient(ctx, queue.SQSConfig{
			AccessKeyID:       cfg.Queue.AccessKeyID,
			SecretAccessKey:   cfg.Queue.SecretAccessKey,
			Endpoint:          cfg.Queue.Endpoint,
			Prefix:            cfg.Queue.Prefix,
			Region:            cfg.Queue.Region,
			VisibilityTimeout: cfg.Consumer.VisibilityTimeout,
		}, logger)
		if err != nil {
			slog.Error("Failed to initialize queue client", "error", err)
			os.Exit(1)
		}
		return client
	default:
		return queue.NewDisabledClient(logger)
	}
}
