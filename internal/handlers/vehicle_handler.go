package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/services"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
	logger         *logger.Logger
}

func NewVehicleHandler(vehicleService services.VehicleService, logger *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var request validators.VehicleCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateVehicleCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), driverID, &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle registered", vehicle)
}

func (h *VehicleHandler) MyVehicle(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	view, err := h.vehicleService.MyVehicle(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle", view)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	view, err := h.vehicleService.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle", view)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var request validators.VehicleUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateVehicleUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), driverID, &request)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated", vehicle)
}

func (h *VehicleHandler) ActivateVehicle(c *gin.Context) {
	h.setActive(c, true, "Vehicle activated")
}

func (h *VehicleHandler) DeactivateVehicle(c *gin.Context) {
	h.setActive(c, false, "Vehicle deactivated")
}

func (h *VehicleHandler) setActive(c *gin.Context, active bool, message string) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	vehicle, err := h.vehicleService.SetVehicleActive(c.Request.Context(), driverID, active)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, message, vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), driverID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.NoContentResponse(c)
}

// UploadImage accepts one multipart image file under the "image" field.
func (h *VehicleHandler) UploadImage(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "An image file is required")
		return
	}

	if fileHeader.Size > utils.MaxImageSize {
		utils.PayloadTooLargeResponse(c, utils.ErrImageTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	upload := &services.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}
	upload.IsPrimary, _ = strconv.ParseBool(c.PostForm("is_primary"))
	if raw := c.PostForm("order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil || order < 0 {
			utils.BadRequestResponse(c, "order must be a non-negative integer")
			return
		}
		upload.Order = &order
	}

	image, err := h.vehicleService.AddImage(c.Request.Context(), driverID, upload)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Image uploaded", image)
}

func (h *VehicleHandler) DeleteImage(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	imageID, err := primitive.ObjectIDFromHex(c.Param("image_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID")
		return
	}

	if err := h.vehicleService.DeleteImage(c.Request.Context(), driverID, imageID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *VehicleHandler) SetPrimaryImage(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	imageID, err := primitive.ObjectIDFromHex(c.Param("image_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID")
		return
	}

	image, err := h.vehicleService.SetPrimaryImage(c.Request.Context(), driverID, imageID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Primary image updated", image)
}
