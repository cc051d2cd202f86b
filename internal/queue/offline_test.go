package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoddity/virt/internal/config"
)

func TestOfflineClient_SendDeterministic(t *testing.T) {
	client := NewOfflineClient(nil)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	body := map[string]string{"title": "fixed"}

	first, err := client.Send(ctx, "tasks", body, SendOptions{})
	require.NoError(t, err)
	second, err := client.Send(ctx, "tasks", body, SendOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^offline-msg-1700000000-[0-9a-f]{8}$`, first)
}

func TestOfflineClient_SendVariesWithBody(t *testing.T) {
	client := NewOfflineClient(nil)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	first, err := client.Send(ctx, "tasks", map[string]string{"title": "a"}, SendOptions{})
	require.NoError(t, err)
	second, err := client.Send(ctx, "tasks", map[string]string{"title": "b"}, SendOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestOfflineClient_Simulations(t *testing.T) {
	client := NewOfflineClient(nil)
	ctx := context.Background()

	assert.Empty(t, client.Receive(ctx, "tasks", 10, 0))
	assert.True(t, client.Delete(ctx, "tasks", "any-receipt"))
	assert.True(t, client.Enabled())
	assert.Equal(t, config.QueueModeOffline, client.Mode())

	stats := client.Stats(ctx, "tasks")
	assert.True(t, stats.Enabled)
	assert.Equal(t, string(config.QueueModeOffline), stats.Mode)
	assert.Equal(t, "tasks", stats.QueueName)
}
