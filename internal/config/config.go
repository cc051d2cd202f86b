package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// QueueMode selects how the queue client is constructed.
// The mode is fixed at startup and never toggled at runtime.
type QueueMode string

const (
	// QueueModeOnline talks to the real queue backend
	QueueModeOnline QueueMode = "online"

	// QueueModeOffline simulates queue operations without any network call
	QueueModeOffline QueueMode = "offline"

	// QueueModeDisabled means credentials were never configured
	QueueModeDisabled QueueMode = "disabled"
)

// Config holds the application configuration
type Config struct {
	Server        ServerConfig
	Queue         QueueConfig
	Consumer      ConsumerConfig
	Storage       StorageConfig
	ObjectStorage ObjectStorageConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Prefix          string
	DefaultQueue    string
	Region          string

	// Backend selects the online implementation: "sqs" or "redis"
	Backend string

	// Offline forces offline mode regardless of credentials
	Offline bool

	// RedisURL is used when Backend is "redis"
	RedisURL string
}

// ConsumerConfig holds consumer loop configuration
type ConsumerConfig struct {
	MaxMessages       int32
	WaitTime          time.Duration
	VisibilityTimeout time.Duration
	IdleInterval      time.Duration
	ErrorBackoff      time.Duration
	ShutdownGrace     time.Duration
}

// StorageConfig holds task storage configuration
type StorageConfig struct {
	Type            string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// ObjectStorageConfig holds object storage (uploads) configuration
type ObjectStorageConfig struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", DefaultWriteTimeout),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", DefaultIdleTimeout),
		},
		Queue: QueueConfig{
			AccessKeyID:     getEnv("QUEUE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("QUEUE_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("QUEUE_ENDPOINT", DefaultQueueEndpoint),
			Prefix:          getEnv("QUEUE_PREFIX", ""),
			DefaultQueue:    getEnv("QUEUE_DEFAULT", DefaultQueueName),
			Region:          getEnv("QUEUE_REGION", DefaultQueueRegion),
			Backend:         getEnv("QUEUE_BACKEND", "sqs"),
			Offline:         getEnvAsBool("QUEUE_OFFLINE", false),
			RedisURL:        getEnv("REDIS_URL", ""),
		},
		Consumer: ConsumerConfig{
			MaxMessages:       int32(getEnvAsInt("CONSUMER_MAX_MESSAGES", DefaultMaxMessages)),
			WaitTime:          getEnvAsDuration("CONSUMER_WAIT_TIME", DefaultWaitTime),
			VisibilityTimeout: getEnvAsDuration("CONSUMER_VISIBILITY_TIMEOUT", DefaultVisibilityTimeout),
			IdleInterval:      getEnvAsDuration("CONSUMER_IDLE_INTERVAL", DefaultIdleInterval),
			ErrorBackoff:      getEnvAsDuration("CONSUMER_ERROR_BACKOFF", DefaultErrorBackoff),
			ShutdownGrace:     getEnvAsDuration("CONSUMER_SHUTDOWN_GRACE", DefaultShutdownGrace),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "inmemory"),
			MongoURI:        getEnv("MONGODB_URI", ""),
			MongoDatabase:   getEnv("MONGODB_DATABASE", DefaultMongoDatabase),
			MongoCollection: getEnv("MONGODB_COLLECTION", DefaultMongoTaskCollection),
		},
		ObjectStorage: ObjectStorageConfig{
			Endpoint:        getEnv("OBJECT_STORAGE_ENDPOINT", DefaultObjectStorageEndpoint),
			Bucket:          getEnv("OBJECT_STORAGE_BUCKET", ""),
			Region:          getEnv("OBJECT_STORAGE_REGION", DefaultQueueRegion),
			AccessKeyID:     getEnv("OBJECT_STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("OBJECT_STORAGE_SECRET_ACCESS_KEY", ""),
		},
	}

	return config, nil
}

// Mode derives the queue mode from the queue configuration.
// The well-known test credential pair selects offline mode, matching
// how local and CI environments are provisioned.
func (q QueueConfig) Mode() QueueMode {
	if q.Offline {
		return QueueModeOffline
	}
	if q.AccessKeyID == TestAccessKeyID && q.SecretAccessKey == TestSecretAccessKey {
		return QueueModeOffline
	}
	if q.Backend == "redis" {
		if q.RedisURL == "" {
			return QueueModeDisabled
		}
		return QueueModeOnline
	}
	if q.AccessKeyID == "" || q.SecretAccessKey == "" {
		return QueueModeDisabled
	}
	return QueueModeOnline
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Consumer.MaxMessages <= 0 || c.Consumer.MaxMessages > 10 {
		return fmt.Errorf("consumer max messages must be 1..10, got %d", c.Consumer.MaxMessages)
	}

	if c.Queue.DefaultQueue == "" {
		return fmt.Errorf("default queue name must not be empty")
	}

	switch c.Storage.Type {
	case "inmemory":
	case "mongodb":
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("mongodb storage requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	switch c.Queue.Backend {
	case "sqs", "redis":
	default:
		return fmt.Errorf("unknown queue backend: %s", c.Queue.Backend)
	}

	return nil
}
