package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
	"porter/internal/repositories/interfaces"
	"porter/internal/validators"
	"porter/pkg/logger"
)

type ProfileService interface {
	MyProfile(ctx context.Context, user *models.User) (*ProfileView, error)

	GuestProfile(ctx context.Context, userID primitive.ObjectID) (*GuestProfileView, error)
	UpdateGuestProfile(ctx context.Context, userID primitive.ObjectID, request *validators.GuestProfileUpdateRequest) (*GuestProfileView, error)

	DriverProfile(ctx context.Context, userID primitive.ObjectID) (*DriverProfileView, error)
	UpdateDriverProfile(ctx context.Context, userID primitive.ObjectID, request *validators.DriverProfileUpdateRequest) (*DriverProfileView, error)
	DriverStatistics(ctx context.Context, userID primitive.ObjectID) (*DriverStatistics, error)
	RecordTrip(ctx context.Context, userID primitive.ObjectID, score float64) (*models.DriverProfile, error)
	MarkDriverVerified(ctx context.Context, userID primitive.ObjectID) error
}

// ProfileView is the role-shaped payload behind the "my profile" endpoint.
// Exactly one of Guest and Driver is set for non-admin accounts.
type ProfileView struct {
	User   *models.User       `json:"user"`
	Guest  *GuestProfileView  `json:"guest_profile,omitempty"`
	Driver *DriverProfileView `json:"driver_profile,omitempty"`
}

type GuestProfileView struct {
	Profile  *models.GuestProfile `json:"profile"`
	Complete bool                 `json:"complete"`
}

// DriverProfileView reports completeness over both the profile fields and
// vehicle registration, so the driver sees one flag for "ready to work".
type DriverProfileView struct {
	Profile  *models.DriverProfile `json:"profile"`
	Vehicle  *models.Vehicle       `json:"vehicle,omitempty"`
	Complete bool                  `json:"complete"`
}

type DriverStatistics struct {
	Rating          float64 `json:"rating"`
	TotalTrips      int64   `json:"total_trips"`
	ExperienceYears int     `json:"experience_years"`
	VerifiedDriver  bool    `json:"verified_driver"`
}

type profileService struct {
	userRepo    interfaces.UserRepository
	guestRepo   interfaces.GuestProfileRepository
	driverRepo  interfaces.DriverProfileRepository
	vehicleRepo interfaces.VehicleRepository
	email       EmailService
	logger      *logger.Logger
}

func NewProfileService(
	userRepo interfaces.UserRepository,
	guestRepo interfaces.GuestProfileRepository,
	driverRepo interfaces.DriverProfileRepository,
	vehicleRepo interfaces.VehicleRepository,
	email EmailService,
	logger *logger.Logger,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		guestRepo:   guestRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		email:       email,
		logger:      logger,
	}
}

func (s *profileService) MyProfile(ctx context.Context, user *models.User) (*ProfileView, error) {
	view := &ProfileView{User: user}

	switch user.Role {
	case models.UserRoleGuest:
		guest, err := s.GuestProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		view.Guest = guest
	case models.UserRoleDriver:
		driver, err := s.DriverProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		view.Driver = driver
	}

	// Admin accounts carry no profile document.
	return view, nil
}

func (s *profileService) GuestProfile(ctx context.Context, userID primitive.ObjectID) (*GuestProfileView, error) {
	profile, err := s.guestRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &GuestProfileView{Profile: profile, Complete: profile.Complete()}, nil
}

func (s *profileService) UpdateGuestProfile(ctx context.Context, userID primitive.ObjectID, request *validators.GuestProfileUpdateRequest) (*GuestProfileView, error) {
	updates := map[string]interface{}{}
	if request.Avatar != "" {
		updates["avatar"] = request.Avatar
	}
	if request.Bio != "" {
		updates["bio"] = request.Bio
	}
	if request.PhoneNumber != "" {
		updates["phone_number"] = request.PhoneNumber
	}
	if request.BirthDate != nil {
		updates["birth_date"] = *request.BirthDate
	}

	if len(updates) > 0 {
		if err := s.guestRepo.Update(ctx, userID, updates); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	return s.GuestProfile(ctx, userID)
}

func (s *profileService) DriverProfile(ctx context.Context, userID primitive.ObjectID) (*DriverProfileView, error) {
	profile, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := &DriverProfileView{Profile: profile}

	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, userID)
	switch {
	case err == nil:
		view.Vehicle = vehicle
	case errors.Is(err, interfaces.ErrNotFound):
		// No vehicle yet. The profile stays incomplete.
	default:
		return nil, err
	}

	view.Complete = profile.Complete() && view.Vehicle != nil
	return view, nil
}

func (s *profileService) UpdateDriverProfile(ctx context.Context, userID primitive.ObjectID, request *validators.DriverProfileUpdateRequest) (*DriverProfileView, error) {
	updates := map[string]interface{}{}
	if request.PhoneNumber != "" {
		updates["phone_number"] = request.PhoneNumber
	}
	if request.Bio != "" {
		updates["bio"] = request.Bio
	}
	if request.ExperienceYears > 0 {
		updates["experience_years"] = request.ExperienceYears
	}
	if request.DriverLicenseNumber != "" {
		updates["driver_license_number"] = request.DriverLicenseNumber
	}
	if request.DriverLicenseCategory != "" {
		updates["driver_license_category"] = request.DriverLicenseCategory
	}
	if request.DriverLicenseExpiry != nil {
		updates["driver_license_expiry"] = *request.DriverLicenseExpiry
	}

	if len(updates) > 0 {
		if err := s.driverRepo.Update(ctx, userID, updates); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	return s.DriverProfile(ctx, userID)
}

func (s *profileService) DriverStatistics(ctx context.Context, userID primitive.ObjectID) (*DriverStatistics, error) {
	profile, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &DriverStatistics{
		Rating:          profile.Rating,
		TotalTrips:      profile.TotalTrips,
		ExperienceYears: profile.ExperienceYears,
		VerifiedDriver:  profile.VerifiedDriver,
	}, nil
}

// RecordTrip folds a completed trip's score into the driver's running
// average and bumps the trip counter.
func (s *profileService) RecordTrip(ctx context.Context, userID primitive.ObjectID, score float64) (*models.DriverProfile, error) {
	profile, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile.ApplyRating(score)
	profile.IncrementTrips()

	err = s.driverRepo.Update(ctx, userID, map[string]interface{}{
		"rating":      profile.Rating,
		"total_trips": profile.TotalTrips,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(userID).WithFields(map[string]interface{}{
		"rating":      profile.Rating,
		"total_trips": profile.TotalTrips,
	}).Info("Trip recorded")

	return profile, nil
}

func (s *profileService) MarkDriverVerified(ctx context.Context, userID primitive.ObjectID) error {
	err := s.driverRepo.Update(ctx, userID, map[string]interface{}{"verified_driver": true})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.WithUserID(userID).Info("Driver marked as verified")

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour driver account has been reviewed and verified. You can now accept trips.",
		user.FirstName,
	)
	if err := s.email.Send(ctx, user.Email, "Driver account verified", body); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Failed to send driver verification email")
	}

	return nil
}
