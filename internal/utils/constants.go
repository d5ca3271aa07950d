package utils

import "time"

// Application Constants
const (
	AppName    = "Porter"
	AppVersion = "1.0.0"

	// Authentication
	JWTAccessTokenTTL  = time.Hour
	JWTRefreshTokenTTL = 30 * 24 * time.Hour
	ActionTokenTTL     = 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Driver Constants
	DefaultDriverRating = 100.0
	MinTripScore        = 0.0
	MaxTripScore        = 100.0

	// Vehicle Constants
	MinVehicleYear   = 1900
	VINLength        = 17
	MinMaxPassengers = 1
	MaxMaxPassengers = 8

	// File Upload
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	ThumbnailWidth = 320
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials  = "invalid credentials"
	ErrAccountExists       = "an account with this email already exists"
	ErrAccountDisabled     = "account is disabled"
	ErrInvalidToken        = "invalid or expired token"
	ErrInternalServer      = "internal server error"
	ErrUnauthorized        = "unauthorized"
	ErrForbidden           = "forbidden"
	ErrValidationFailed    = "validation failed"
	ErrFileUploadFailed    = "file upload failed"
	ErrVehicleExists       = "driver already has a registered vehicle"
	ErrImageTooLarge       = "image exceeds the maximum allowed size"
	ErrUnsupportedImage    = "unsupported image type"
	ErrExternalServiceDown = "an upstream service is unavailable"
)

// Cache Keys
const (
	CacheUserPrefix      = "user:"
	CacheBlacklistPrefix = "blacklist:"
)

// Content Types
var AllowedImageContentTypes = []string{"image/jpeg", "image/png", "image/webp"}

func IsAllowedImageContentType(contentType string) bool {
	for _, t := range AllowedImageContentTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
