package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
	"porter/internal/repositories/interfaces"
	"porter/pkg/oauth"
	"porter/pkg/storage"
)

// In-memory fakes backing the service tests. Update methods interpret the
// same field-name maps the Mongo repositories receive.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return interfaces.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "is_verified":
			user.IsVerified = value.(bool)
		case "is_active":
			user.IsActive = value.(bool)
		case "password":
			user.Password = value.(string)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeGuestRepo struct {
	profiles map[primitive.ObjectID]*models.GuestProfile
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{profiles: map[primitive.ObjectID]*models.GuestProfile{}}
}

func (r *fakeGuestRepo) Create(ctx context.Context, profile *models.GuestProfile) error {
	if _, ok := r.profiles[profile.UserID]; ok {
		return interfaces.ErrDuplicate
	}
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	clone := *profile
	r.profiles[profile.UserID] = &clone
	return nil
}

func (r *fakeGuestRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.GuestProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeGuestRepo) Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "avatar":
			profile.Avatar = value.(string)
		case "bio":
			profile.Bio = value.(string)
		case "phone_number":
			profile.PhoneNumber = value.(string)
		case "birth_date":
			d := value.(time.Time)
			profile.BirthDate = &d
		}
	}
	return nil
}

type fakeDriverRepo struct {
	profiles map[primitive.ObjectID]*models.DriverProfile
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{profiles: map[primitive.ObjectID]*models.DriverProfile{}}
}

func (r *fakeDriverRepo) Create(ctx context.Context, profile *models.DriverProfile) error {
	if _, ok := r.profiles[profile.UserID]; ok {
		return interfaces.ErrDuplicate
	}
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	clone := *profile
	r.profiles[profile.UserID] = &clone
	return nil
}

func (r *fakeDriverRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DriverProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeDriverRepo) Update(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "phone_number":
			profile.PhoneNumber = value.(string)
		case "bio":
			profile.Bio = value.(string)
		case "rating":
			profile.Rating = value.(float64)
		case "total_trips":
			profile.TotalTrips = value.(int64)
		case "experience_years":
			profile.ExperienceYears = value.(int)
		case "verified_driver":
			profile.VerifiedDriver = value.(bool)
		case "driver_license_number":
			profile.DriverLicenseNumber = value.(string)
		case "driver_license_category":
			profile.DriverLicenseCategory = value.(string)
		case "driver_license_expiry":
			d := value.(time.Time)
			profile.DriverLicenseExpiry = &d
		}
	}
	return nil
}

type fakeVehicleRepo struct {
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[primitive.ObjectID]*models.Vehicle{}}
}

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	for _, existing := range r.vehicles {
		if existing.DriverID == vehicle.DriverID || existing.NumberPlate == vehicle.NumberPlate {
			return interfaces.ErrDuplicate
		}
	}
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	clone := *vehicle
	r.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *vehicle
	return &clone, nil
}

func (r *fakeVehicleRepo) GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.Vehicle, error) {
	for _, vehicle := range r.vehicles {
		if vehicle.DriverID == driverID {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	vehicle, ok := r.vehicles[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "make":
			vehicle.Make = value.(string)
		case "model":
			vehicle.Model = value.(string)
		case "color":
			vehicle.Color = value.(string)
		case "year":
			vehicle.Year = value.(int)
		case "number_plate":
			vehicle.NumberPlate = value.(string)
		case "vin_code":
			vehicle.VINCode = value.(string)
		case "fuel_type":
			vehicle.FuelType = models.FuelType(value.(string))
		case "max_passengers":
			vehicle.MaxPassengers = value.(int)
		case "description":
			vehicle.Description = value.(string)
		case "is_active":
			vehicle.IsActive = value.(bool)
		}
	}
	return nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.vehicles[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

type fakeImageRepo struct {
	images map[primitive.ObjectID]*models.VehicleImage
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[primitive.ObjectID]*models.VehicleImage{}}
}

func (r *fakeImageRepo) Create(ctx context.Context, image *models.VehicleImage) error {
	if image.ID.IsZero() {
		image.ID = primitive.NewObjectID()
	}
	image.CreatedAt = time.Now()
	clone := *image
	r.images[image.ID] = &clone
	return nil
}

func (r *fakeImageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleImage, error) {
	image, ok := r.images[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *image
	return &clone, nil
}

func (r *fakeImageRepo) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.VehicleImage, error) {
	var images []*models.VehicleImage
	for _, image := range r.images {
		if image.VehicleID == vehicleID {
			clone := *image
			images = append(images, &clone)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Order < images[j].Order })
	return images, nil
}

func (r *fakeImageRepo) CountByVehicle(ctx context.Context, vehicleID primitive.ObjectID) (int64, error) {
	var count int64
	for _, image := range r.images {
		if image.VehicleID == vehicleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.images[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) DeleteByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	for id, image := range r.images {
		if image.VehicleID == vehicleID {
			delete(r.images, id)
		}
	}
	return nil
}

func (r *fakeImageRepo) ClearPrimary(ctx context.Context, vehicleID primitive.ObjectID) error {
	for _, image := range r.images {
		if image.VehicleID == vehicleID {
			image.IsPrimary = false
		}
	}
	return nil
}

func (r *fakeImageRepo) SetPrimary(ctx context.Context, id primitive.ObjectID) error {
	image, ok := r.images[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	image.IsPrimary = true
	return nil
}

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmail struct {
	sent []sentMail
	err  error
}

func (e *fakeEmail) Send(ctx context.Context, to, subject, body string) error {
	if e.err != nil {
		return e.err
	}
	e.sent = append(e.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeVerifier struct {
	identity *oauth.Identity
	err      error
}

func (v *fakeVerifier) Verify(ctx context.Context, rawToken string) (*oauth.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

type fakeStorage struct {
	objects map[string][]byte
	baseURL string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, baseURL: "https://cdn.test"}
}

func (s *fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, request.Reader); err != nil {
		return nil, err
	}
	s.objects[request.Key] = buf.Bytes()
	return &storage.UploadResponse{
		Key:  request.Key,
		URL:  s.baseURL + "/" + request.Key,
		Size: int64(buf.Len()),
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) URL(ctx context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}
