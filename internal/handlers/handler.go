package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/services"
	"porter/internal/utils"
	"porter/pkg/logger"
)

// respondServiceError translates service sentinel errors into the response
// envelope. Anything unrecognized is logged and reported as a 500 without
// leaking internals.
func respondServiceError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, utils.ErrInvalidCredentials)
	case errors.Is(err, services.ErrInvalidToken):
		utils.UnauthorizedResponse(c, utils.ErrInvalidToken)
	case errors.Is(err, services.ErrAccountExists):
		utils.ConflictResponse(c, utils.ErrAccountExists)
	case errors.Is(err, services.ErrVehicleExists):
		utils.ConflictResponse(c, utils.ErrVehicleExists)
	case errors.Is(err, services.ErrAccountDisabled):
		utils.ForbiddenResponse(c, utils.ErrAccountDisabled)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, utils.ErrForbidden)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrImageTooLarge):
		utils.PayloadTooLargeResponse(c, utils.ErrImageTooLarge)
	case errors.Is(err, services.ErrUnsupportedImage):
		utils.UnsupportedMediaTypeResponse(c, utils.ErrUnsupportedImage)
	case errors.Is(err, services.ErrExternalService):
		utils.BadGatewayResponse(c, utils.ErrExternalServiceDown)
	default:
		log.WithError(err).WithRequestID(c.GetString("request_id")).Error("Unhandled service error")
		utils.InternalServerErrorResponse(c)
	}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func currentClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	value, exists := c.Get("token_claims")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.JWTClaims)
	return claims, ok
}
