package interfaces

import (
	"context"

	"yelocar/internal/models"
)

// BookingRepository reads and writes BookingCar/{userId}/{bookingId}. Records
// come back raw; reconciliation happens in the service layer.
type BookingRepository interface {
	Put(ctx context.Context, record *models.BookingRecord) error
	Get(ctx context.Context, userID, bookingID string) (*models.BookingRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.BookingRecord, error)
	ListAll(ctx context.Context) ([]models.BookingRecord, error)
	Delete(ctx context.Context, userID, bookingID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
