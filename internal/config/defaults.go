package config

import "time"

// Default configuration values
const (
	// HTTP server defaults
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second

	// Queue backend defaults (Yandex Message Queue speaks the SQS protocol)
	DefaultQueueEndpoint = "https://message-queue.api.cloud.yandex.net"
	DefaultQueueName     = "task-tracker-queue"
	DefaultQueueRegion   = "ru-central1"

	// Consumer loop defaults
	DefaultMaxMessages       = 10
	DefaultWaitTime          = 20 * time.Second
	DefaultVisibilityTimeout = 30 * time.Second
	DefaultIdleInterval      = 1 * time.Second
	DefaultErrorBackoff      = 5 * time.Second
	DefaultShutdownGrace     = 10 * time.Second

	// MongoDB defaults
	DefaultMongoDatabase       = "tasktracker"
	DefaultMongoTaskCollection = "tasks"

	// Object storage defaults
	DefaultObjectStorageEndpoint = "https://storage.yandexcloud.net"

	// Well-known test credential pair; selects offline queue mode
	TestAccessKeyID     = "test_access_key"
	TestSecretAccessKey = "test_secret_key"
)
