package routes

import (
	"github.com/gin-gonic/gin"

	"porter/internal/handlers"
	"porter/internal/middleware"
)

// SetupAuthRoutes wires registration, session, and account action endpoints.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string, blacklist middleware.TokenBlacklist) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/google", authHandler.GoogleLogin)

		// Links arrive by mail, so these stay unauthenticated.
		auth.POST("/resend-verification", authHandler.ResendVerification)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	session := r.Group("/auth")
	session.Use(middleware.AuthRequired(jwtSecret, blacklist))
	{
		session.POST("/logout", authHandler.Logout)
		session.GET("/me", authHandler.Me)
	}
}
