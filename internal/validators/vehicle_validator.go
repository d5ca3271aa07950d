package validators

import "strings"

type VehicleCreateRequest struct {
	Make          string `json:"make" validate:"required,min=2,max=50"`
	Model         string `json:"model" validate:"required,min=1,max=50"`
	Color         string `json:"color" validate:"required,min=3,max=30"`
	Year          int    `json:"year" validate:"required,vehicle_year"`
	NumberPlate   string `json:"number_plate" validate:"required,license_plate"`
	VINCode       string `json:"vin_code" validate:"omitempty,vin_number"`
	FuelType      string `json:"fuel_type" validate:"required,oneof=petrol diesel gas electric hybrid"`
	MaxPassengers int    `json:"max_passengers" validate:"required,gte=1,lte=8"`
	Description   string `json:"description" validate:"omitempty,max=1000"`
}

type VehicleUpdateRequest struct {
	Make          string `json:"make" validate:"omitempty,min=2,max=50"`
	Model         string `json:"model" validate:"omitempty,min=1,max=50"`
	Color         string `json:"color" validate:"omitempty,min=3,max=30"`
	Year          int    `json:"year" validate:"omitempty,vehicle_year"`
	NumberPlate   string `json:"number_plate" validate:"omitempty,license_plate"`
	VINCode       string `json:"vin_code" validate:"omitempty,vin_number"`
	FuelType      string `json:"fuel_type" validate:"omitempty,oneof=petrol diesel gas electric hybrid"`
	MaxPassengers int    `json:"max_passengers" validate:"omitempty,gte=1,lte=8"`
	Description   string `json:"description" validate:"omitempty,max=1000"`
}

func ValidateVehicleCreate(req *VehicleCreateRequest) ValidationErrors {
	normalizeVehicleCodes(&req.NumberPlate, &req.VINCode)
	return ValidateStruct(req)
}

func ValidateVehicleUpdate(req *VehicleUpdateRequest) ValidationErrors {
	normalizeVehicleCodes(&req.NumberPlate, &req.VINCode)
	return ValidateStruct(req)
}

// Plates and VINs are stored uppercase so the unique plate index catches
// case-only duplicates.
func normalizeVehicleCodes(plate, vin *string) {
	*plate = strings.ToUpper(strings.TrimSpace(*plate))
	*vin = strings.ToUpper(strings.TrimSpace(*vin))
}
