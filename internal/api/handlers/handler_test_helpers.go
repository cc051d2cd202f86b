package handlers

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/queue"
	"github.com/Hoddity/virt/internal/storage"
)

// MockTaskRepository implements storage.TaskRepository for testing
type MockTaskRepository struct {
	CreateFunc  func(ctx context.Context, task *domain.Task) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Task, error)
	ListFunc    func(ctx context.Context, filter storage.ListFilter) ([]*domain.Task, error)
	UpdateFunc  func(ctx context.Context, task *domain.Task) error
	DeleteFunc  func(ctx context.Context, id string) error
	CountFunc   func(ctx context.Context) int64
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *MockTaskRepository) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) Count(ctx context.Context) int64 {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0
}

// MockQueueClient implements queue.Client for testing
type MockQueueClient struct {
	SendFunc  func(ctx context.Context, queueName string, body any, opts queue.SendOptions) (string, error)
	StatsFunc func(ctx context.Context, queueName string) queue.Stats
}

func (m *MockQueueClient) Send(ctx context.Context, queueName string, body any, opts queue.SendOptions) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, queueName, body, opts)
	}
	return "mock-id", nil
}

func (m *MockQueueClient) Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []queue.Message {
	return nil
}

func (m *MockQueueClient) Delete(ctx context.Context, queueName, receipt string) bool {
	return true
}

func (m *MockQueueClient) Stats(ctx context.Context, queueName string) queue.Stats {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, queueName)
	}
	return queue.Stats{QueueName: queueName, Enabled: true, Mode: string(config.QueueModeOnline)}
}

func (m *MockQueueClient) Enabled() bool { return true }

func (m *MockQueueClient) Mode() config.QueueMode { return config.QueueModeOnline }

func setupGinTest() (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	w := httptest.NewRecorder()
	return router, w
}
