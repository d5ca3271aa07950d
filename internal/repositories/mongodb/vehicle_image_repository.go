package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"porter/internal/models"
	"porter/internal/repositories/interfaces"
)

type vehicleImageRepository struct {
	collection *mongo.Collection
}

func NewVehicleImageRepository(db *mongo.Database) interfaces.VehicleImageRepository {
	return &vehicleImageRepository{
		collection: db.Collection("vehicle_images"),
	}
}

func (r *vehicleImageRepository) Create(ctx context.Context, image *models.VehicleImage) error {
	if image.ID.IsZero() {
		image.ID = primitive.NewObjectID()
	}
	image.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, image)
	if err != nil {
		return wrapWriteError(err, "create vehicle image")
	}
	return nil
}

func (r *vehicleImageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleImage, error) {
	var image models.VehicleImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		return nil, wrapReadError(err, "get vehicle image")
	}
	return &image, nil
}

func (r *vehicleImageRepository) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.VehicleImage, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []*models.VehicleImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle images: %w", err)
	}
	return images, nil
}

func (r *vehicleImageRepository) CountByVehicle(ctx context.Context, vehicleID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicle images: %w", err)
	}
	return count, nil
}

func (r *vehicleImageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle image: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *vehicleImageRepository) DeleteByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle images: %w", err)
	}
	return nil
}

func (r *vehicleImageRepository) ClearPrimary(ctx context.Context, vehicleID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"vehicle_id": vehicleID, "is_primary": true},
		bson.M{"$set": bson.M{"is_primary": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear primary image: %w", err)
	}
	return nil
}

func (r *vehicleImageRepository) SetPrimary(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_primary": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to set primary image: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
