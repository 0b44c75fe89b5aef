package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
	"yelocar/pkg/storage"
)

// SnapshotPublisher pushes a fresh snapshot of topic to live subscribers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, topic string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, topic string) {}

type CatalogService interface {
	// ListVehicles returns the catalog in key order. Inactive vehicles are
	// included only when includeInactive is set.
	ListVehicles(ctx context.Context, includeInactive bool) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, id string, includeInactive bool) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, actorID string, req *models.CreateVehicleRequest) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, actorID, id string, req *models.UpdateVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, actorID, id string) error
	ToggleVehicleStatus(ctx context.Context, actorID, id string) (*models.Vehicle, error)
	UploadVehicleImage(ctx context.Context, actorID, id, filename string, r io.Reader) (*models.Vehicle, error)
	CountVehicles(ctx context.Context) (int, error)
}

type catalogService struct {
	vehicleRepo interfaces.VehicleRepository
	storage     storage.StorageProvider
	cache       CacheService
	audit       AuditService
	publisher   SnapshotPublisher
	logger      *logger.Logger
	now         func() time.Time

	// generation counts catalog writes. A list only fills the cache when no
	// write finished while it was reading.
	cacheMu    sync.Mutex
	generation uint64
}

func NewCatalogService(
	vehicleRepo interfaces.VehicleRepository,
	storage storage.StorageProvider,
	cache CacheService,
	audit AuditService,
	publisher SnapshotPublisher,
	logger *logger.Logger,
) CatalogService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &catalogService{
		vehicleRepo: vehicleRepo,
		storage:     storage,
		cache:       cache,
		audit:       audit,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *catalogService) ListVehicles(ctx context.Context, includeInactive bool) ([]models.Vehicle, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return all, nil
	}

	active := make([]models.Vehicle, 0, len(all))
	for i := range all {
		if all[i].IsActive() {
			active = append(active, all[i])
		}
	}
	return active, nil
}

func (s *catalogService) catalog(ctx context.Context) ([]models.Vehicle, error) {
	var cached []models.Vehicle
	if s.cache.Get(ctx, utils.CacheCatalogKey, &cached) {
		return cached, nil
	}

	s.cacheMu.Lock()
	generation := s.generation
	s.cacheMu.Unlock()

	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation == generation {
		s.cache.Set(ctx, utils.CacheCatalogKey, vehicles, utils.CatalogCacheTTL)
	}
	return vehicles, nil
}

func (s *catalogService) GetVehicle(ctx context.Context, id string, includeInactive bool) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	if !includeInactive && !vehicle.IsActive() {
		return nil, fmt.Errorf("vehicle %s is inactive: %w", id, models.ErrNotFound)
	}
	return vehicle, nil
}

func (s *catalogService) CreateVehicle(ctx context.Context, actorID string, req *models.CreateVehicleRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateVehicleCreate(req); len(errs) > 0 {
		return nil, errs
	}

	now := s.now()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	image := strings.TrimSpace(req.ImageURL)
	if image == "" {
		image = models.PlaceholderImg
	}

	vehicle := &models.Vehicle{
		Name:         req.Name,
		Year:         year,
		Price:        req.Price,
		Discount:     req.Discount,
		ImageSrc:     image,
		ImageAlt:     req.Name,
		Category:     strings.TrimSpace(req.Category),
		FuelType:     strings.TrimSpace(req.FuelType),
		Transmission: strings.TrimSpace(req.Transmission),
		Location:     strings.TrimSpace(req.Location),
		Mileage:      strings.TrimSpace(req.Mileage),
		Description:  strings.TrimSpace(req.Description),
		MainFeatures: models.MainFeaturesFrom(req.Features),
		AllFeatures:  req.Features,
		Status:       models.VehicleStatusActive,
		CreatedAt:    utils.FormatTimeISO(now),
		UpdatedAt:    utils.FormatTimeISO(now),
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.changed(ctx, actorID, models.AuditActionCreate, vehicle.ID, map[string]interface{}{
		"name":  vehicle.Name,
		"price": vehicle.Price,
	})
	return vehicle, nil
}

func (s *catalogService) UpdateVehicle(ctx context.Context, actorID, id string, req *models.UpdateVehicleRequest) (*models.Vehicle, error) {
	current, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	if errs := validators.ValidateVehicleUpdate(req, current); len(errs) > 0 {
		return nil, errs
	}

	updated := *current
	applyVehicleUpdate(&updated, req)
	updated.UpdatedAt = utils.FormatTimeISO(s.now())

	if err := s.vehicleRepo.Replace(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.changed(ctx, actorID, models.AuditActionUpdate, id, nil)
	return &updated, nil
}

func applyVehicleUpdate(v *models.Vehicle, req *models.UpdateVehicleRequest) {
	if req.Name != nil {
		v.Name = *req.Name
		v.ImageAlt = *req.Name
	}
	if req.Price != nil {
		v.Price = *req.Price
	}
	if req.Discount != nil {
		v.Discount = *req.Discount
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.Category != nil {
		v.Category = strings.TrimSpace(*req.Category)
	}
	if req.FuelType != nil {
		v.FuelType = strings.TrimSpace(*req.FuelType)
	}
	if req.Transmission != nil {
		v.Transmission = strings.TrimSpace(*req.Transmission)
	}
	if req.Location != nil {
		v.Location = strings.TrimSpace(*req.Location)
	}
	if req.Mileage != nil {
		v.Mileage = strings.TrimSpace(*req.Mileage)
	}
	if req.Description != nil {
		v.Description = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		v.ImageSrc = strings.TrimSpace(*req.ImageURL)
		if v.ImageSrc == "" {
			v.ImageSrc = models.PlaceholderImg
		}
	}
	if req.Features != nil {
		v.AllFeatures = *req.Features
		v.MainFeatures = models.MainFeaturesFrom(*req.Features)
	}
}

func (s *catalogService) DeleteVehicle(ctx context.Context, actorID, id string) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	s.changed(ctx, actorID, models.AuditActionDelete, id, nil)
	return nil
}

func (s *catalogService) ToggleVehicleStatus(ctx context.Context, actorID, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	next := models.VehicleStatusInactive
	if !vehicle.IsActive() {
		next = models.VehicleStatusActive
	}
	vehicle.Status = next
	vehicle.UpdatedAt = utils.FormatTimeISO(s.now())

	if err := s.vehicleRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":    string(next),
		"updatedAt": vehicle.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to update vehicle status: %w", err)
	}

	s.changed(ctx, actorID, models.AuditActionUpdate, id, map[string]interface{}{"status": string(next)})
	return vehicle, nil
}

// UploadVehicleImage downscales the image, stores it and points imageSrc at
// it. The previous image is left in storage.
func (s *catalogService) UploadVehicleImage(ctx context.Context, actorID, id, filename string, r io.Reader) (*models.Vehicle, error) {
	if !utils.IsValidImageFormat(filename) {
		return nil, fmt.Errorf("%s: %w", utils.ErrUnsupportedImage.Error(), models.ErrValidation)
	}
	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	img, err := utils.ResizeImage(io.LimitReader(r, utils.MaxImageSize+1), filename, utils.MaxImageWidth, utils.MaxImageHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v: %w", err, models.ErrValidation)
	}
	data, contentType, err := utils.EncodeImage(img, filename, 85)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if contentType == "image/jpeg" {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	uploaded, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          utils.ImageKey(id, filename),
		Reader:       bytes.NewReader(data),
		ContentType:  contentType,
		Size:         int64(len(data)),
		CacheControl: "public, max-age=31536000",
		Metadata:     map[string]string{"vehicle_id": id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.vehicleRepo.UpdateFields(ctx, id, map[string]interface{}{
		"imageSrc":  uploaded.URL,
		"updatedAt": utils.FormatTimeISO(s.now()),
	}); err != nil {
		return nil, fmt.Errorf("failed to update vehicle image: %w", err)
	}

	s.changed(ctx, actorID, models.AuditActionUpdate, id, map[string]interface{}{"imageSrc": uploaded.URL})
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *catalogService) CountVehicles(ctx context.Context) (int, error) {
	vehicles, err := s.catalog(ctx)
	if err != nil {
		return 0, err
	}
	return len(vehicles), nil
}

// changed runs after every catalog write. Bookings and interaction stats
// both join against the catalog, so both snapshots are refreshed.
func (s *catalogService) changed(ctx context.Context, actorID string, action models.AuditAction, id string, values map[string]interface{}) {
	s.cacheMu.Lock()
	s.generation++
	s.cache.Delete(ctx, utils.CacheCatalogKey)
	s.cacheMu.Unlock()

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"vehicle_id": id,
		"action":     action,
	}).Info("Catalog updated")

	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    actorID,
		ActorRole:  models.RoleAdmin,
		Action:     action,
		Resource:   "vehicle",
		ResourceID: id,
		NewValues:  values,
	})

	s.publisher.Publish(ctx, utils.TopicBookings)
	s.publisher.Publish(ctx, utils.TopicInteractions)
}
