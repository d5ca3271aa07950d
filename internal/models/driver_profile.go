package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultDriverRating = 100.0

type DriverProfile struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID                primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	PhoneNumber           string             `json:"phone_number" bson:"phone_number"`
	Bio                   string             `json:"bio" bson:"bio" validate:"max=500"`
	Rating                float64            `json:"rating" bson:"rating"`
	TotalTrips            int64              `json:"total_trips" bson:"total_trips"`
	ExperienceYears       int                `json:"experience_years" bson:"experience_years"`
	VerifiedDriver        bool               `json:"verified_driver" bson:"verified_driver"`
	DriverLicenseNumber   string             `json:"driver_license_number" bson:"driver_license_number"`
	DriverLicenseCategory string             `json:"driver_license_category" bson:"driver_license_category"`
	DriverLicenseExpiry   *time.Time         `json:"driver_license_expiry" bson:"driver_license_expiry"`
	CreatedAt             time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" bson:"updated_at"`
}

func (p *DriverProfile) ProfileRole() UserRole {
	return UserRoleDriver
}

// Complete reports whether the driver can be offered to riders: contact and
// license data present. Vehicle presence is checked by the caller, which owns
// that lookup.
func (p *DriverProfile) Complete() bool {
	return p.PhoneNumber != "" && p.DriverLicenseNumber != "" && p.DriverLicenseCategory != ""
}

// ApplyRating folds a new trip score into the running average.
func (p *DriverProfile) ApplyRating(score float64) {
	p.Rating = (p.Rating*float64(p.TotalTrips) + score) / float64(p.TotalTrips+1)
}

func (p *DriverProfile) IncrementTrips() {
	p.TotalTrips++
}
