package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.NormalizedBooking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*models.NormalizedBooking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.NormalizedBooking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
	Variants(ctx context.Context, carID string) ([]string, error)

	// Admin
	ListAllBookings(ctx context.Context) ([]models.NormalizedBooking, error)
	DeleteBooking(ctx context.Context, actorID, userID, bookingID string) error
}

type bookingService struct {
	bookingRepo   interfaces.BookingRepository
	catalog       CatalogService
	notifications NotificationService
	audit         AuditService
	publisher     SnapshotPublisher
	logger        *logger.Logger
	now           func() time.Time
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	catalog CatalogService,
	notifications NotificationService,
	audit AuditService,
	publisher SnapshotPublisher,
	logger *logger.Logger,
) BookingService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &bookingService{
		bookingRepo:   bookingRepo,
		catalog:       catalog,
		notifications: notifications,
		audit:         audit,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// BookingKey is the key of a new booking. The millisecond suffix lets a user
// book the same car more than once.
func BookingKey(carID string, at time.Time) string {
	return carID + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.NormalizedBooking, error) {
	if errs := validators.ValidateBooking(req); len(errs) > 0 {
		return nil, errs
	}

	vehicle, err := s.catalog.GetVehicle(ctx, req.CarID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &models.BookingRecord{
		ID:                BookingKey(vehicle.ID, now),
		UserID:            userID,
		CarID:             models.NewFlexString(vehicle.ID),
		CarName:           models.NewFlexString(vehicle.Name),
		CarImage:          models.NewFlexString(vehicle.ImageSrc),
		CarModel:          models.NewFlexString(vehicle.Name),
		CarYear:           models.NewFlexInt(int64(vehicle.Year)),
		Price:             models.NewFlexInt(vehicle.Price),
		Discount:          models.NewFlexInt(vehicle.Discount),
		MainFeatures:      copyFeatures(vehicle.MainFeatures),
		OwnerName:         models.NewFlexString(req.FullName),
		PhoneNumber:       models.NewFlexString(req.PhoneNumber),
		EmailAddress:      models.NewFlexString(req.EmailAddress),
		BookingDate:       models.NewFlexString(req.BookingDate),
		PickupLocation:    models.NewFlexString(req.City),
		PreferredVariant:  models.NewFlexString(req.PreferredVariant),
		PaymentPreference: models.NewFlexString(req.PaymentPreference),
		Status:            models.NewFlexString(string(models.BookingStatusConfirmed)),
		CreatedAt:         models.NewFlexString(utils.FormatTimeISO(now)),
	}

	if err := s.bookingRepo.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.LogBookingEvent(record.ID, userID, utils.EventBookingCreated, map[string]interface{}{
		"car_id":  vehicle.ID,
		"payment": req.PaymentPreference,
	})
	s.publisher.Publish(ctx, utils.TopicBookings)

	s.notifications.NotifyBookingCreated(ctx, &BookingNotice{
		BookingID:   record.ID,
		UserID:      userID,
		OwnerName:   req.FullName,
		PhoneNumber: req.PhoneNumber,
		CarName:     vehicle.Name,
		BookingDate: req.BookingDate,
		City:        req.City,
	})

	booking := Reconcile([]models.BookingRecord{*record}, []models.Vehicle{*vehicle})[0]
	return &booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.NormalizedBooking, error) {
	record, err := s.bookingRepo.Get(ctx, userID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	catalog, err := s.catalog.ListVehicles(ctx, true)
	if err != nil {
		return nil, err
	}
	booking := Reconcile([]models.BookingRecord{*record}, catalog)[0]
	return &booking, nil
}

// ListUserBookings returns the user's bookings, latest booking date first.
func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]models.NormalizedBooking, error) {
	records, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	catalog, err := s.catalog.ListVehicles(ctx, true)
	if err != nil {
		return nil, err
	}

	bookings := Reconcile(records, catalog)
	SortByBookingDateDesc(bookings)
	return bookings, nil
}

// ListAllBookings returns every user's bookings, newest first.
func (s *bookingService) ListAllBookings(ctx context.Context) ([]models.NormalizedBooking, error) {
	records, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	catalog, err := s.catalog.ListVehicles(ctx, true)
	if err != nil {
		return nil, err
	}

	bookings := Reconcile(records, catalog)
	SortByCreatedAtDesc(bookings)
	return bookings, nil
}

// CancelBooking removes one of the caller's own bookings. Bookings live
// under the owner's key, so another user's id never resolves.
func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	if err := s.bookingRepo.Delete(ctx, userID, bookingID); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.logger.LogBookingEvent(bookingID, userID, utils.EventBookingCancelled, nil)
	s.publisher.Publish(ctx, utils.TopicBookings)
	return nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, actorID, userID, bookingID string) error {
	if err := s.bookingRepo.Delete(ctx, userID, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.logger.LogBookingEvent(bookingID, userID, utils.EventBookingCancelled, map[string]interface{}{
		"actor_id": actorID,
	})
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    actorID,
		ActorRole:  models.RoleAdmin,
		Action:     models.AuditActionDelete,
		Resource:   "booking",
		ResourceID: userID + "/" + bookingID,
	})
	s.publisher.Publish(ctx, utils.TopicBookings)
	return nil
}

func (s *bookingService) Variants(ctx context.Context, carID string) ([]string, error) {
	vehicle, err := s.catalog.GetVehicle(ctx, carID, false)
	if err != nil {
		return nil, err
	}
	return models.VariantsFor(vehicle.Name), nil
}
