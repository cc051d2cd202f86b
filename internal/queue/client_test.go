package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/domain"
)

func TestPrepareAttributes_Standard(t *testing.T) {
	attrs := prepareAttributes(nil)

	require.Contains(t, attrs, "Source")
	require.Contains(t, attrs, "Timestamp")
	require.Contains(t, attrs, "MessageType")

	assert.Equal(t, Attribute{DataType: "String", Value: SourceAttribute}, attrs["Source"])
	assert.Equal(t, "String", attrs["Timestamp"].DataType)

	_, err := time.Parse(time.RFC3339, attrs["Timestamp"].Value)
	assert.NoError(t, err)
}

func TestPrepareAttributes_Types(t *testing.T) {
	attrs := prepareAttributes(map[string]any{
		"Name":    "alpha",
		"Retries": 3,
		"Score":   1.5,
		"Wide":    int64(9000),
		"Urgent":  true,
		"Skipped": []string{"unsupported"},
	})

	assert.Equal(t, Attribute{DataType: "String", Value: "alpha"}, attrs["Name"])
	assert.Equal(t, Attribute{DataType: "Number", Value: "3"}, attrs["Retries"])
	assert.Equal(t, Attribute{DataType: "Number", Value: "1.5"}, attrs["Score"])
	assert.Equal(t, Attribute{DataType: "Number", Value: "9000"}, attrs["Wide"])
	assert.Equal(t, Attribute{DataType: "String", Value: "true"}, attrs["Urgent"])
	assert.NotContains(t, attrs, "Skipped")
}

func TestPrepareAttributes_CallerOverridesStandard(t *testing.T) {
	attrs := prepareAttributes(map[string]any{"MessageType": "delete_task"})

	assert.Equal(t, "delete_task", attrs["MessageType"].Value)
}

func TestDisabledClient(t *testing.T) {
	client := NewDisabledClient(nil)
	ctx := context.Background()

	_, err := client.Send(ctx, "tasks", map[string]string{"a": "b"}, SendOptions{})
	assert.ErrorIs(t, err, domain.ErrQueueDisabled)

	assert.Nil(t, client.Receive(ctx, "tasks", 10, 0))
	assert.False(t, client.Delete(ctx, "tasks", "receipt"))
	assert.False(t, client.Enabled())
	assert.Equal(t, config.QueueModeDisabled, client.Mode())

	stats := client.Stats(ctx, "tasks")
	assert.False(t, stats.Enabled)
	assert.Equal(t, string(config.QueueModeDisabled), stats.Mode)
}
