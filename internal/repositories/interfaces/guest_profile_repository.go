package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

type GuestProfileRepository interface {
	Create(ctx context.Context, profile *models.GuestProfile) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.GuestProfile, error)
	Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error
}
