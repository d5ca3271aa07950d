package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleImage is one photo in a vehicle's gallery. At most one image per
// vehicle is primary; the first upload is promoted automatically.
type VehicleImage struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID    primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	StorageKey   string             `json:"-" bson:"storage_key"`
	URL          string             `json:"url" bson:"url"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	ContentType  string             `json:"content_type" bson:"content_type"`
	Size         int64              `json:"size" bson:"size"`
	IsPrimary    bool               `json:"is_primary" bson:"is_primary"`
	Order        int                `json:"order" bson:"order"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
