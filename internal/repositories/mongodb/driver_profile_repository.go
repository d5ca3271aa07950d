package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"porter/internal/models"
	"porter/internal/repositories/interfaces"
)

type driverProfileRepository struct {
	collection *mongo.Collection
}

func NewDriverProfileRepository(db *mongo.Database) interfaces.DriverProfileRepository {
	return &driverProfileRepository{
		collection: db.Collection("driver_profiles"),
	}
}

func (r *driverProfileRepository) Create(ctx context.Context, profile *models.DriverProfile) error {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return wrapWriteError(err, "create driver profile")
	}
	return nil
}

func (r *driverProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		return nil, wrapReadError(err, "get driver profile")
	}
	return &profile, nil
}

func (r *driverProfileRepository) Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": updates})
	if err != nil {
		return wrapWriteError(err, "update driver profile")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
