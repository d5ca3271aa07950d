package routes

import (
	"github.com/gin-gonic/gin"

	"porter/internal/handlers"
	"porter/internal/middleware"
)

func SetupProfileRoutes(r *gin.RouterGroup, profileHandler *handlers.ProfileHandler, jwtSecret string, blacklist middleware.TokenBlacklist) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthRequired(jwtSecret, blacklist))
	{
		profiles.GET("/me", profileHandler.MyProfile)
	}

	guest := r.Group("/profiles/guest")
	guest.Use(middleware.AuthRequired(jwtSecret, blacklist), middleware.GuestRequired())
	{
		guest.PUT("", profileHandler.UpdateGuestProfile)
	}

	driver := r.Group("/profiles/driver")
	driver.Use(middleware.AuthRequired(jwtSecret, blacklist), middleware.DriverRequired())
	{
		driver.PUT("", profileHandler.UpdateDriverProfile)
		driver.GET("/statistics", profileHandler.DriverStatistics)
	}

	admin := r.Group("/admin/drivers")
	admin.Use(middleware.AuthRequired(jwtSecret, blacklist), middleware.AdminRequired())
	{
		admin.POST("/:id/trips", profileHandler.RecordTrip)
		admin.POST("/:id/verify", profileHandler.VerifyDriver)
	}
}
