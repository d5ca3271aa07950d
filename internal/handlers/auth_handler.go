package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"porter/internal/services"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a local account with an empty role profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateRegister(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Account created", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateLogin(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Logged in", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	// The body is optional. Clients that send their refresh token get it
	// revoked along with the access token.
	var request validators.RefreshRequest
	_ = c.ShouldBindJSON(&request)

	if err := h.authService.Logout(c.Request.Context(), claims, request.RefreshToken); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Logged out", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var request validators.RefreshRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateRefresh(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", response)
}

// GoogleLogin signs in with a Google ID token, creating a verified guest
// account on first use.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var request validators.GoogleLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateGoogleLogin(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	response, err := h.authService.GoogleLogin(c.Request.Context(), request.IDToken)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Logged in", response)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var request validators.ResendVerificationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateResendVerification(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	if err := h.authService.SendVerificationEmail(c.Request.Context(), request.Email); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "If the address holds an unverified account, a verification email was sent", nil)
}

// VerifyEmail consumes the uid and token carried by a mailed link.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	request := validators.VerifyEmailRequest{
		UID:   c.Query("uid"),
		Token: c.Query("token"),
	}

	if errs := validators.ValidateVerifyEmail(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), request.UID, request.Token); err != nil {
		// A dead link is a client problem, not an authentication failure.
		if errors.Is(err, services.ErrInvalidToken) {
			utils.BadRequestResponse(c, utils.ErrInvalidToken)
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Email verified", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var request validators.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateForgotPassword(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), request.Email); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	// The response does not reveal whether an account exists.
	utils.SuccessResponse(c, "If the address holds an account, a reset email was sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request validators.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateResetPassword(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	err := h.authService.ConfirmPasswordReset(c.Request.Context(), request.UID, request.Token, request.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			utils.BadRequestResponse(c, utils.ErrInvalidToken)
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Password updated", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
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

	utils.SuccessResponse(c, "Current user", user)
}
