package repositories

import (
	"context"
	"errors"
	"fmt"

	"planora-project/backend/models"
	"planora-project/backend/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	users *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{users: db.Collection("users")}
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, services.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) CreateUser(ctx context.Context, user models.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) ActivateUser(ctx context.Context, email string) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":   bson.M{"isActive": true},
			"$unset": bson.M{"verificationCode": "", "verificationExpiry": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrUserNotFound
	}
	return nil
}
