package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planora-project/backend/models"
	"planora-project/backend/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepo struct {
	categories *mongo.Collection
	tasks      *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) *CategoryRepo {
	return &CategoryRepo{
		categories: db.Collection("categories"),
		tasks:      db.Collection("tasks"),
	}
}

func (r *CategoryRepo) GetCategory(ctx context.Context, userID, categoryID string) (models.Category, error) {
	var category models.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": categoryID, "userId": userID}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, services.ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (r *CategoryRepo) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames the category and refreshes the snapshot carried by
// its tasks so lists keep showing the current name.
func (r *CategoryRepo) UpdateCategory(ctx context.Context, userID, categoryID, name string) (models.Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"name": name}}

	var updated models.Category
	err := r.categories.FindOneAndUpdate(ctx, bson.M{"_id": categoryID, "userId": userID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, services.ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("failed to update category: %w", err)
	}

	if _, err := r.tasks.UpdateMany(ctx,
		bson.M{"category.id": categoryID},
		bson.M{"$set": bson.M{"category.name": name}},
	); err != nil {
		return models.Category{}, fmt.Errorf("failed to refresh task categories: %w", err)
	}
	return updated, nil
}

// DeleteCategory removes the category only. Tasks keep their last-known
// category snapshot; the reference is weak by design of the data model.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	result, err := r.categories.DeleteOne(ctx, bson.M{"_id": categoryID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return services.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepo) TasksByCategory(ctx context.Context, categoryID string, from, to time.Time) ([]models.Task, error) {
	filter := bson.M{
		"category.id": categoryID,
		"createdAt":   bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.tasks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve category tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode category tasks: %w", err)
	}
	return tasks, nil
}
