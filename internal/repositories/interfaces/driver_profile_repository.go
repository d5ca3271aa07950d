package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

type DriverProfileRepository interface {
	Create(ctx context.Context, profile *models.DriverProfile) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DriverProfile, error)
	Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error
}
