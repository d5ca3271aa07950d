package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GuestProfile struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Avatar      string             `json:"avatar" bson:"avatar"`
	Bio         string             `json:"bio" bson:"bio" validate:"max=500"`
	PhoneNumber string             `json:"phone_number" bson:"phone_number"`
	BirthDate   *time.Time         `json:"birth_date" bson:"birth_date"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (p *GuestProfile) ProfileRole() UserRole {
	return UserRoleGuest
}

// Complete reports whether the guest has filled in the contact fields the
// booking flow needs.
func (p *GuestProfile) Complete() bool {
	return p.PhoneNumber != "" && p.BirthDate != nil
}
