package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/services"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
)

type ProfileHandler struct {
	profileService services.ProfileService
	authService    services.AuthService
	logger         *logger.Logger
}

func NewProfileHandler(profileService services.ProfileService, authService services.AuthService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		logger:         logger,
	}
}

// MyProfile returns the caller's account with its role-specific profile.
func (h *ProfileHandler) MyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	view, err := h.profileService.MyProfile(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Profile", view)
}

func (h *ProfileHandler) UpdateGuestProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var request validators.GuestProfileUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateGuestProfileUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	view, err := h.profileService.UpdateGuestProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", view)
}

func (h *ProfileHandler) UpdateDriverProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var request validators.DriverProfileUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateDriverProfileUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	view, err := h.profileService.UpdateDriverProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", view)
}

func (h *ProfileHandler) DriverStatistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	stats, err := h.profileService.DriverStatistics(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Driver statistics", stats)
}

// RecordTrip is the admin hook called when a trip closes: it folds the trip
// score into the driver's rating and bumps the trip counter.
func (h *ProfileHandler) RecordTrip(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid driver ID")
		return
	}

	var request validators.TripReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateTripReport(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	profile, err := h.profileService.RecordTrip(c.Request.Context(), driverID, request.Score)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Trip recorded", profile)
}

func (h *ProfileHandler) VerifyDriver(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid driver ID")
		return
	}

	if err := h.profileService.MarkDriverVerified(c.Request.Context(), driverID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Driver verified", nil)
}
