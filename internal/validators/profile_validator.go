package validators

import "time"

type GuestProfileUpdateRequest struct {
	Avatar      string     `json:"avatar" validate:"omitempty,url"`
	Bio         string     `json:"bio" validate:"omitempty,max=500"`
	PhoneNumber string     `json:"phone_number" validate:"omitempty,phone_number"`
	BirthDate   *time.Time `json:"birth_date" validate:"omitempty,past_date"`
}

type DriverProfileUpdateRequest struct {
	PhoneNumber         string     `json:"phone_number" validate:"omitempty,phone_number"`
	Bio                 string     `json:"bio" validate:"omitempty,max=500"`
	ExperienceYears     int        `json:"experience_years" validate:"omitempty,gte=0,lte=70"`
	DriverLicenseNumber string     `json:"driver_license_number" validate:"omitempty,min=5,max=20"`
	DriverLicenseCategory string   `json:"driver_license_category" validate:"omitempty,oneof=A B C D E BE CE DE"`
	DriverLicenseExpiry *time.Time `json:"driver_license_expiry"`
}

type TripReportRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

func ValidateGuestProfileUpdate(req *GuestProfileUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateDriverProfileUpdate(req *DriverProfileUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTripReport(req *TripReportRequest) ValidationErrors {
	return ValidateStruct(req)
}
