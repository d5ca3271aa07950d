package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FuelType string

const (
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeGas      FuelType = "gas"
	FuelTypeElectric FuelType = "electric"
	FuelTypeHybrid   FuelType = "hybrid"
)

// Vehicle is the single car a driver operates with. Deactivation hides it
// from riders; the record is only destroyed together with the driver profile.
type Vehicle struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID      primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	Make          string             `json:"make" bson:"make" validate:"required,min=1,max=50"`
	Model         string             `json:"model" bson:"model" validate:"required,min=1,max=50"`
	Color         string             `json:"color" bson:"color" validate:"required,min=2,max=30"`
	Year          int                `json:"year" bson:"year" validate:"required"`
	NumberPlate   string             `json:"number_plate" bson:"number_plate" validate:"required"`
	VINCode       string             `json:"vin_code" bson:"vin_code"`
	FuelType      FuelType           `json:"fuel_type" bson:"fuel_type"`
	MaxPassengers int                `json:"max_passengers" bson:"max_passengers"`
	Description   string             `json:"description" bson:"description"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (v *Vehicle) FullName() string {
	return fmt.Sprintf("%s %s %d", v.Make, v.Model, v.Year)
}

func ValidFuelType(f FuelType) bool {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeGas, FuelTypeElectric, FuelTypeHybrid:
		return true
	}
	return false
}
