package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
	"yelocar/pkg/maps"
)

type ShowroomService interface {
	ListShowrooms(ctx context.Context, includeInactive bool) ([]models.Showroom, error)
	GetShowroom(ctx context.Context, id string) (*models.Showroom, error)
	CreateShowroom(ctx context.Context, actorID string, req *models.ShowroomRequest) (*models.Showroom, error)
	UpdateShowroom(ctx context.Context, actorID, id string, req *models.ShowroomRequest) (*models.Showroom, error)
	ToggleShowroomStatus(ctx context.Context, actorID, id string) (*models.Showroom, error)
	DeleteShowroom(ctx context.Context, actorID, id string) error
}

type showroomService struct {
	showroomRepo interfaces.ShowroomRepository
	geocoder     maps.MapsProvider
	audit        AuditService
	logger       *logger.Logger
	now          func() time.Time
}

func NewShowroomService(showroomRepo interfaces.ShowroomRepository, geocoder maps.MapsProvider, audit AuditService, logger *logger.Logger) ShowroomService {
	if geocoder == nil {
		geocoder = maps.NoopProvider{}
	}
	return &showroomService{
		showroomRepo: showroomRepo,
		geocoder:     geocoder,
		audit:        audit,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *showroomService) ListShowrooms(ctx context.Context, includeInactive bool) ([]models.Showroom, error) {
	showrooms, err := s.showroomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list showrooms: %w", err)
	}
	if includeInactive {
		return showrooms, nil
	}

	active := make([]models.Showroom, 0, len(showrooms))
	for _, sr := range showrooms {
		if sr.Status != models.ShowroomStatusInactive {
			active = append(active, sr)
		}
	}
	return active, nil
}

func (s *showroomService) GetShowroom(ctx context.Context, id string) (*models.Showroom, error) {
	showroom, err := s.showroomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get showroom: %w", err)
	}
	return showroom, nil
}

func (s *showroomService) CreateShowroom(ctx context.Context, actorID string, req *models.ShowroomRequest) (*models.Showroom, error) {
	if errs := validators.ValidateShowroom(req); len(errs) > 0 {
		return nil, errs
	}

	showroom := &models.Showroom{
		Status:    models.ShowroomStatusActive,
		CreatedAt: utils.FormatTimeISO(s.now()),
	}
	applyShowroom(showroom, req)
	s.locate(ctx, showroom)

	if err := s.showroomRepo.Create(ctx, showroom); err != nil {
		return nil, fmt.Errorf("failed to create showroom: %w", err)
	}

	s.record(ctx, actorID, models.AuditActionCreate, showroom.ID, nil)
	return showroom, nil
}

func (s *showroomService) UpdateShowroom(ctx context.Context, actorID, id string, req *models.ShowroomRequest) (*models.Showroom, error) {
	if errs := validators.ValidateShowroom(req); len(errs) > 0 {
		return nil, errs
	}

	current, err := s.showroomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get showroom: %w", err)
	}

	moved := current.Address != req.Address || current.City != req.City || current.State != strings.TrimSpace(req.State)
	updated := *current
	applyShowroom(&updated, req)
	updated.UpdatedAt = utils.FormatTimeISO(s.now())
	if moved || updated.Latitude == nil {
		updated.Latitude, updated.Longitude = nil, nil
		s.locate(ctx, &updated)
	}

	if err := s.showroomRepo.Replace(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update showroom: %w", err)
	}

	s.record(ctx, actorID, models.AuditActionUpdate, id, nil)
	return &updated, nil
}

func (s *showroomService) ToggleShowroomStatus(ctx context.Context, actorID, id string) (*models.Showroom, error) {
	showroom, err := s.showroomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get showroom: %w", err)
	}

	next := models.ShowroomStatusInactive
	if showroom.Status == models.ShowroomStatusInactive {
		next = models.ShowroomStatusActive
	}
	if err := s.showroomRepo.SetStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update showroom status: %w", err)
	}
	showroom.Status = next

	s.record(ctx, actorID, models.AuditActionUpdate, id, map[string]interface{}{"status": string(next)})
	return showroom, nil
}

func (s *showroomService) DeleteShowroom(ctx context.Context, actorID, id string) error {
	if err := s.showroomRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete showroom: %w", err)
	}
	s.record(ctx, actorID, models.AuditActionDelete, id, nil)
	return nil
}

func applyShowroom(sr *models.Showroom, req *models.ShowroomRequest) {
	sr.Name = req.Name
	sr.Address = req.Address
	sr.City = req.City
	sr.State = strings.TrimSpace(req.State)
	sr.Phone = req.Phone
	sr.Email = req.Email
	sr.Manager = strings.TrimSpace(req.Manager)
}

// locate fills in coordinates when the address resolves. A showroom is saved
// without them otherwise.
func (s *showroomService) locate(ctx context.Context, sr *models.Showroom) {
	address := strings.Join(nonBlank(sr.Address, sr.City, sr.State), ", ")
	resp, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("city", sr.City).Warn("Showroom geocoding failed")
		return
	}
	result, err := resp.First()
	if err != nil {
		return
	}
	lat, lng := result.Coordinates.Latitude, result.Coordinates.Longitude
	sr.Latitude, sr.Longitude = &lat, &lng
}

func (s *showroomService) record(ctx context.Context, actorID string, action models.AuditAction, id string, values map[string]interface{}) {
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    actorID,
		ActorRole:  models.RoleAdmin,
		Action:     action,
		Resource:   "showroom",
		ResourceID: id,
		NewValues:  values,
	})
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
