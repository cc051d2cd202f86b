package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask("Write report", "Quarterly numbers")

	require.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "Quarterly numbers", task.Description)
	assert.Equal(t, TaskStatusNew, task.Status)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestNewTask_UniqueIDs(t *testing.T) {
	first := NewTask("a", "")
	second := NewTask("a", "")

	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(TaskStatusNew))
	assert.True(t, ValidStatus(TaskStatusInProgress))
	assert.True(t, ValidStatus(TaskStatusDone))
	assert.False(t, ValidStatus(TaskStatus("archived")))
	assert.False(t, ValidStatus(TaskStatus("")))
}
