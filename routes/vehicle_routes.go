package routes

import (
	"github.com/gin-gonic/gin"

	"porter/internal/handlers"
	"porter/internal/middleware"
)

func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, jwtSecret string, blacklist middleware.TokenBlacklist) {
	// Any authenticated account can look up a vehicle by id.
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(jwtSecret, blacklist))
	{
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
	}

	mine := r.Group("/vehicles/me")
	mine.Use(middleware.AuthRequired(jwtSecret, blacklist), middleware.DriverRequired())
	{
		mine.POST("", vehicleHandler.CreateVehicle)
		mine.GET("", vehicleHandler.MyVehicle)
		mine.PUT("", vehicleHandler.UpdateVehicle)
		mine.DELETE("", vehicleHandler.DeleteVehicle)
		mine.PUT("/activate", vehicleHandler.ActivateVehicle)
		mine.PUT("/deactivate", vehicleHandler.DeactivateVehicle)

		mine.POST("/images", vehicleHandler.UploadImage)
		mine.DELETE("/images/:image_id", vehicleHandler.DeleteImage)
		mine.PUT("/images/:image_id/primary", vehicleHandler.SetPrimaryImage)
	}
}
