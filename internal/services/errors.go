package services

import "errors"

// Service-level sentinel errors. Handlers translate these to HTTP statuses
// with errors.Is, so wrapped variants still match.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrVehicleExists      = errors.New("driver already has a registered vehicle")
	ErrImageTooLarge      = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrExternalService    = errors.New("upstream service unavailable")
)
