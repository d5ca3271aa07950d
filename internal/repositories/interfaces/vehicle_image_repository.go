package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

type VehicleImageRepository interface {
	Create(ctx context.Context, image *models.VehicleImage) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleImage, error)
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.VehicleImage, error)
	CountByVehicle(ctx context.Context, vehicleID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error

	// Primary flag management. ClearPrimary unsets the flag on every image
	// of the vehicle; SetPrimary flags a single image.
	ClearPrimary(ctx context.Context, vehicleID primitive.ObjectID) error
	SetPrimary(ctx context.Context, id primitive.ObjectID) error
}
