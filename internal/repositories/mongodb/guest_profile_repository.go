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

type guestProfileRepository struct {
	collection *mongo.Collection
}

func NewGuestProfileRepository(db *mongo.Database) interfaces.GuestProfileRepository {
	return &guestProfileRepository{
		collection: db.Collection("guest_profiles"),
	}
}

func (r *guestProfileRepository) Create(ctx context.Context, profile *models.GuestProfile) error {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return wrapWriteError(err, "create guest profile")
	}
	return nil
}

func (r *guestProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.GuestProfile, error) {
	var profile models.GuestProfile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		return nil, wrapReadError(err, "get guest profile")
	}
	return &profile, nil
}

func (r *guestProfileRepository) Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": updates})
	if err != nil {
		return wrapWriteError(err, "update guest profile")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
