package repositories

import (
	"context"
	"errors"
	"fmt"

	"jobportal/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskRepository is the MongoDB-backed task store. A task document embeds
// its comments and activity logs, so deleting the document cascades the
// deletion atomically. Updates compare-and-swap on the version field to
// serialize concurrent mutations of the same task.
type TaskRepository struct {
	tasksCollection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{tasksCollection: collection}
}

func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	task.Version = 1
	if _, err := r.tasksCollection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.tasksCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	expected := task.Version
	task.Version++

	result, err := r.tasksCollection.ReplaceOne(ctx, bson.M{"_id": task.ID, "version": expected}, task)
	if err != nil {
		task.Version = expected
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		task.Version = expected
		// Distinguish a lost race from a deleted task.
		count, err := r.tasksCollection.CountDocuments(ctx, bson.M{"_id": task.ID})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if count == 0 {
			return models.ErrNotFound
		}
		return models.ErrConflict
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.tasksCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) ListByParticipant(ctx context.Context, actorID string) ([]models.Task, error) {
	filter := bson.M{"$or": []bson.M{
		{"createdBy": actorID},
		{"assignedTo": actorID},
	}}

	cursor, err := r.tasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return tasks, nil
}
