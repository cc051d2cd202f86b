package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultQueueEndpoint, cfg.Queue.Endpoint)
	assert.Equal(t, DefaultQueueName, cfg.Queue.DefaultQueue)
	assert.Equal(t, "sqs", cfg.Queue.Backend)
	assert.Equal(t, int32(DefaultMaxMessages), cfg.Consumer.MaxMessages)
	assert.Equal(t, DefaultWaitTime, cfg.Consumer.WaitTime)
	assert.Equal(t, "inmemory", cfg.Storage.Type)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("QUEUE_OFFLINE", "true")
	t.Setenv("CONSUMER_WAIT_TIME", "5s")
	t.Setenv("STORAGE_TYPE", "mongodb")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Queue.Offline)
	assert.Equal(t, 5*time.Second, cfg.Consumer.WaitTime)
	assert.Equal(t, "mongodb", cfg.Storage.Type)
}

func TestQueueConfig_Mode(t *testing.T) {
	tests := []struct {
		name string
		cfg  QueueConfig
		want QueueMode
	}{
		{
			name: "offline flag forces offline",
			cfg:  QueueConfig{Offline: true, AccessKeyID: "real", SecretAccessKey: "real", Backend: "sqs"},
			want: QueueModeOffline,
		},
		{
			name: "test credentials select offline",
			cfg:  QueueConfig{AccessKeyID: TestAccessKeyID, SecretAccessKey: TestSecretAccessKey, Backend: "sqs"},
			want: QueueModeOffline,
		},
		{
			name: "missing credentials disable the queue",
			cfg:  QueueConfig{Backend: "sqs"},
			want: QueueModeDisabled,
		},
		{
			name: "partial credentials disable the queue",
			cfg:  QueueConfig{AccessKeyID: "only-key", Backend: "sqs"},
			want: QueueModeDisabled,
		},
		{
			name: "full credentials go online",
			cfg:  QueueConfig{AccessKeyID: "key", SecretAccessKey: "secret", Backend: "sqs"},
			want: QueueModeOnline,
		},
		{
			name: "redis backend without url is disabled",
			cfg:  QueueConfig{Backend: "redis"},
			want: QueueModeDisabled,
		},
		{
			name: "redis backend with url is online",
			cfg:  QueueConfig{Backend: "redis", RedisURL: "redis://localhost:6379"},
			want: QueueModeOnline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Mode())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Queue:    QueueConfig{DefaultQueue: "tasks", Backend: "sqs"},
			Consumer: ConsumerConfig{MaxMessages: 10},
			Storage:  StorageConfig{Type: "inmemory"},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Consumer.MaxMessages = 11
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Queue.DefaultQueue = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Storage.Type = "mongodb"
	assert.Error(t, cfg.Validate())
	cfg.Storage.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Queue.Backend = "kafka"
	assert.Error(t, cfg.Validate())
}
