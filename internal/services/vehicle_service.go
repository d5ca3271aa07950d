package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
	"porter/internal/repositories/interfaces"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
	"porter/pkg/storage"
)

type VehicleService interface {
	CreateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.VehicleCreateRequest) (*models.Vehicle, error)
	MyVehicle(ctx context.Context, driverID primitive.ObjectID) (*VehicleView, error)
	GetVehicle(ctx context.Context, id primitive.ObjectID) (*VehicleView, error)
	UpdateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.VehicleUpdateRequest) (*models.Vehicle, error)
	SetVehicleActive(ctx context.Context, driverID primitive.ObjectID, active bool) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, driverID primitive.ObjectID) error

	AddImage(ctx context.Context, driverID primitive.ObjectID, upload *ImageUpload) (*models.VehicleImage, error)
	DeleteImage(ctx context.Context, driverID, imageID primitive.ObjectID) error
	SetPrimaryImage(ctx context.Context, driverID, imageID primitive.ObjectID) (*models.VehicleImage, error)
}

type VehicleView struct {
	Vehicle *models.Vehicle        `json:"vehicle"`
	Images  []*models.VehicleImage `json:"images"`
}

// ImageUpload carries one image file from the transport layer. IsPrimary
// promotes the new image over its siblings; Order overrides the default
// append-to-end position.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
	IsPrimary   bool
	Order       *int
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	imageRepo   interfaces.VehicleImageRepository
	tx          interfaces.Transactor
	store       storage.Provider
	logger      *logger.Logger
}

func NewVehicleService(
	vehicleRepo interfaces.VehicleRepository,
	imageRepo interfaces.VehicleImageRepository,
	tx interfaces.Transactor,
	store storage.Provider,
	logger *logger.Logger,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		imageRepo:   imageRepo,
		tx:          tx,
		store:       store,
		logger:      logger,
	}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.VehicleCreateRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		DriverID:      driverID,
		Make:          request.Make,
		Model:         request.Model,
		Color:         request.Color,
		Year:          request.Year,
		NumberPlate:   request.NumberPlate,
		VINCode:       request.VINCode,
		FuelType:      models.FuelType(request.FuelType),
		MaxPassengers: request.MaxPassengers,
		Description:   request.Description,
		IsActive:      true,
	}

	// The unique driver_id index is the real guard. A driver who already
	// registered a vehicle gets ErrDuplicate from the insert.
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrVehicleExists
		}
		return nil, err
	}

	s.logger.WithUserID(driverID).WithField("vehicle_id", vehicle.ID.Hex()).Info("Vehicle registered")
	return vehicle, nil
}

func (s *vehicleService) MyVehicle(ctx context.Context, driverID primitive.ObjectID) (*VehicleView, error) {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, vehicle)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id primitive.ObjectID) (*VehicleView, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, vehicle)
}

func (s *vehicleService) buildView(ctx context.Context, vehicle *models.Vehicle) (*VehicleView, error) {
	images, err := s.imageRepo.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []*models.VehicleImage{}
	}
	return &VehicleView{Vehicle: vehicle, Images: images}, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.VehicleUpdateRequest) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if request.Make != "" {
		updates["make"] = request.Make
	}
	if request.Model != "" {
		updates["model"] = request.Model
	}
	if request.Color != "" {
		updates["color"] = request.Color
	}
	if request.Year != 0 {
		updates["year"] = request.Year
	}
	if request.NumberPlate != "" {
		updates["number_plate"] = request.NumberPlate
	}
	if request.VINCode != "" {
		updates["vin_code"] = request.VINCode
	}
	if request.FuelType != "" {
		updates["fuel_type"] = request.FuelType
	}
	if request.MaxPassengers != 0 {
		updates["max_passengers"] = request.MaxPassengers
	}
	if request.Description != "" {
		updates["description"] = request.Description
	}

	if len(updates) > 0 {
		if err := s.vehicleRepo.Update(ctx, vehicle.ID, updates); err != nil {
			if errors.Is(err, interfaces.ErrDuplicate) {
				return nil, ErrVehicleExists
			}
			return nil, err
		}
	}

	return s.vehicleRepo.GetByID(ctx, vehicle.ID)
}

func (s *vehicleService) SetVehicleActive(ctx context.Context, driverID primitive.ObjectID, active bool) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.vehicleRepo.Update(ctx, vehicle.ID, map[string]interface{}{"is_active": active}); err != nil {
		return nil, err
	}

	vehicle.IsActive = active
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, driverID primitive.ObjectID) error {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	images, err := s.imageRepo.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.imageRepo.DeleteByVehicle(ctx, vehicle.ID); err != nil {
			return err
		}
		return s.vehicleRepo.Delete(ctx, vehicle.ID)
	})
	if err != nil {
		return err
	}

	// Storage cleanup happens after the commit. A leaked object is better
	// than a record pointing at a deleted one.
	for _, img := range images {
		s.deleteStoredImage(ctx, img)
	}

	s.logger.WithUserID(driverID).WithField("vehicle_id", vehicle.ID.Hex()).Info("Vehicle deleted")
	return nil
}

func (s *vehicleService) AddImage(ctx context.Context, driverID primitive.ObjectID, upload *ImageUpload) (*models.VehicleImage, error) {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if upload.Size > utils.MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if !utils.IsAllowedImageContentType(upload.ContentType) {
		return nil, ErrUnsupportedImage
	}

	// Read through a capped reader in case the declared size lied.
	data, err := io.ReadAll(io.LimitReader(upload.Reader, utils.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > utils.MaxImageSize {
		return nil, ErrImageTooLarge
	}

	// Trust the bytes over the declared type.
	contentType := http.DetectContentType(data)
	if !utils.IsAllowedImageContentType(contentType) {
		return nil, ErrUnsupportedImage
	}

	key := imageKey(vehicle.ID, contentType)

	uploaded, err := s.store.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	thumbnailURL := s.uploadThumbnail(ctx, key, contentType, data)

	count, err := s.imageRepo.CountByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	order := int(count)
	if upload.Order != nil {
		order = *upload.Order
	}

	img := &models.VehicleImage{
		VehicleID:    vehicle.ID,
		StorageKey:   uploaded.Key,
		URL:          uploaded.URL,
		ThumbnailURL: thumbnailURL,
		ContentType:  contentType,
		Size:         int64(len(data)),
		IsPrimary:    count == 0 || upload.IsPrimary, // the gallery's first image leads it
		Order:        order,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if img.IsPrimary && count > 0 {
			// An explicit primary demotes its siblings in the same commit.
			if err := s.imageRepo.ClearPrimary(ctx, vehicle.ID); err != nil {
				return err
			}
		}
		return s.imageRepo.Create(ctx, img)
	})
	if err != nil {
		s.deleteStoredImage(ctx, img)
		return nil, err
	}

	s.logger.WithUserID(driverID).WithFields(map[string]interface{}{
		"vehicle_id": vehicle.ID.Hex(),
		"image_id":   img.ID.Hex(),
	}).Info("Vehicle image uploaded")

	return img, nil
}

// uploadThumbnail renders and stores a reduced copy. WebP uploads are kept
// full size only, since only JPEG and PNG decoders are registered.
func (s *vehicleService) uploadThumbnail(ctx context.Context, key, contentType string, data []byte) string {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return ""
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to decode image for thumbnail")
		return ""
	}

	thumb := resize.Thumbnail(utils.ThumbnailWidth, utils.ThumbnailWidth, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, nil); err != nil {
		s.logger.WithError(err).Warn("Failed to encode thumbnail")
		return ""
	}

	uploaded, err := s.store.Upload(ctx, &storage.UploadRequest{
		Key:         thumbnailKey(key),
		Reader:      &buf,
		ContentType: "image/jpeg",
		Size:        int64(buf.Len()),
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to upload thumbnail")
		return ""
	}

	return uploaded.URL
}

func (s *vehicleService) DeleteImage(ctx context.Context, driverID, imageID primitive.ObjectID) error {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	img, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if img.VehicleID != vehicle.ID {
		return ErrForbidden
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.imageRepo.Delete(ctx, imageID); err != nil {
			return err
		}

		if !img.IsPrimary {
			return nil
		}

		// The gallery lost its lead image. Promote the next one, if any.
		remaining, err := s.imageRepo.ListByVehicle(ctx, vehicle.ID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		return s.imageRepo.SetPrimary(ctx, remaining[0].ID)
	})
	if err != nil {
		return err
	}

	s.deleteStoredImage(ctx, img)
	return nil
}

func (s *vehicleService) SetPrimaryImage(ctx context.Context, driverID, imageID primitive.ObjectID) (*models.VehicleImage, error) {
	vehicle, err := s.vehicleRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	img, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if img.VehicleID != vehicle.ID {
		return nil, ErrForbidden
	}

	// Clearing siblings and flagging the new primary commit together, so
	// the gallery never shows two primaries.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.imageRepo.ClearPrimary(ctx, vehicle.ID); err != nil {
			return err
		}
		return s.imageRepo.SetPrimary(ctx, imageID)
	})
	if err != nil {
		return nil, err
	}

	img.IsPrimary = true
	return img, nil
}

func (s *vehicleService) deleteStoredImage(ctx context.Context, img *models.VehicleImage) {
	if err := s.store.Delete(ctx, img.StorageKey); err != nil {
		s.logger.WithError(err).WithField("key", img.StorageKey).Warn("Failed to delete stored image")
	}
	if img.ThumbnailURL != "" {
		if err := s.store.Delete(ctx, thumbnailKey(img.StorageKey)); err != nil {
			s.logger.WithError(err).WithField("key", img.StorageKey).Warn("Failed to delete stored thumbnail")
		}
	}
}

func imageKey(vehicleID primitive.ObjectID, contentType string) string {
	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("vehicles/%s/%s%s", vehicleID.Hex(), uuid.NewString(), ext)
}

func thumbnailKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + "_thumb.jpg"
}
