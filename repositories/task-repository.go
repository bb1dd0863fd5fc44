package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planora-project/backend/models"
	"planora-project/backend/services"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepo is the MongoDB implementation of the remote task store. Subtasks
// live embedded in the task document, so deleting a task removes them with
// it.
type TaskRepo struct {
	tasks      *mongo.Collection
	categories *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{
		tasks:      db.Collection("tasks"),
		categories: db.Collection("categories"),
	}
}

func (r *TaskRepo) List(ctx context.Context, userID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.tasks.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// resolveCategory finds or creates the user's category by name and returns
// the snapshot the task will carry.
func (r *TaskRepo) resolveCategory(ctx context.Context, userID string, ref models.CategoryRef) (models.CategoryRef, error) {
	if ref.Name == "" {
		return models.CategoryRef{}, nil
	}

	var existing models.Category
	err := r.categories.FindOne(ctx, bson.M{"userId": userID, "name": ref.Name}).Decode(&existing)
	if err == nil {
		return models.CategoryRef{ID: existing.ID, Name: existing.Name}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.CategoryRef{}, fmt.Errorf("failed to look up category: %w", err)
	}

	category := models.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      ref.Name,
		CreatedAt: time.Now(),
	}
	if _, err := r.categories.InsertOne(ctx, category); err != nil {
		return models.CategoryRef{}, fmt.Errorf("failed to create category: %w", err)
	}
	return models.CategoryRef{ID: category.ID, Name: category.Name}, nil
}

func (r *TaskRepo) Create(ctx context.Context, task models.Task) (models.Task, error) {
	ref, err := r.resolveCategory(ctx, task.UserID, task.Category)
	if err != nil {
		return models.Task{}, err
	}
	task.Category = ref

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *TaskRepo) UpdateTime(ctx context.Context, userID, taskID string, span models.TaskTime) error {
	result, err := r.tasks.UpdateOne(ctx,
		bson.M{"_id": taskID, "userId": userID},
		bson.M{"$set": bson.M{"time": span, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update task time: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) UpdateFull(ctx context.Context, task models.Task) error {
	ref, err := r.resolveCategory(ctx, task.UserID, task.Category)
	if err != nil {
		return err
	}

	result, err := r.tasks.UpdateOne(ctx,
		bson.M{"_id": task.ID, "userId": task.UserID},
		bson.M{"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"time":        task.Time,
			"category":    ref,
			"tags":        task.Tags,
			"subtasks":    task.Subtasks,
			"completed":   task.Completed,
			"color":       task.Color,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, userID, taskID string) error {
	result, err := r.tasks.DeleteOne(ctx, bson.M{"_id": taskID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) ToggleComplete(ctx context.Context, userID, taskID string) (models.Task, error) {
	filter := bson.M{"_id": taskID, "userId": userID}

	var task models.Task
	if err := r.tasks.FindOne(ctx, filter).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, services.ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("failed to load task: %w", err)
	}

	completed := !task.Completed
	status := models.StatusTodo
	if completed {
		status = models.StatusDone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"completed": completed,
		"status":    status,
		"updatedAt": time.Now(),
	}}

	var updated models.Task
	if err := r.tasks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return models.Task{}, fmt.Errorf("failed to toggle task: %w", err)
	}
	return updated, nil
}
