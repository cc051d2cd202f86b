package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/internal/storage"
)

// TaskRepository implements storage.TaskRepository using MongoDB
type TaskRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewTaskRepository creates a new MongoDB-backed task repository
func NewTaskRepository(mongoURI, database, collection string) (*TaskRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &TaskRepository{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

func (r *TaskRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Create persists a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	if _, err := r.coll().InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its id
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var task domain.Task
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// List returns tasks matching the filter, newest first
func (r *TaskRepository) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Task, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Offset > 0 {
		opts.SetSkip(filter.Offset)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.Task
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, len(results))
	for i := range results {
		tasks[i] = &results[i]
	}
	return tasks, nil
}

// Update replaces an existing task
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its id
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Count returns the total number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) int64 {
	count, err := r.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0
	}
	return count
}

// Close closes the MongoDB connection
func (r *TaskRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
