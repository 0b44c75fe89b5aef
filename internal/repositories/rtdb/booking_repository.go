package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type bookingRepository struct {
	tree Tree
}

func NewBookingRepository(tree Tree) interfaces.BookingRepository {
	return &bookingRepository{tree: tree}
}

func (r *bookingRepository) Put(ctx context.Context, record *models.BookingRecord) error {
	if err := checkKeys(record.UserID, record.ID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, join(PathBookings, record.UserID, record.ID), record); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, userID, bookingID string) (*models.BookingRecord, error) {
	if err := checkKeys(userID, bookingID); err != nil {
		return nil, err
	}
	raw, err := readOne(ctx, r.tree, join(PathBookings, userID, bookingID), "booking "+bookingID)
	if err != nil {
		return nil, err
	}
	record := decodeBooking(userID, bookingID, raw)
	return &record, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	if err := checkKey(userID); err != nil {
		return nil, err
	}
	nodes, keys, err := readChildren(ctx, r.tree, join(PathBookings, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	records := make([]models.BookingRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, decodeBooking(userID, key, nodes[key]))
	}
	return records, nil
}

// ListAll flattens BookingCar/{userId}/{bookingId} into one list ordered by
// user then booking key. A user node that is not an object is skipped.
func (r *bookingRepository) ListAll(ctx context.Context) ([]models.BookingRecord, error) {
	userNodes, uids, err := readChildren(ctx, r.tree, PathBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	records := make([]models.BookingRecord, 0)
	for _, uid := range uids {
		var bookings map[string]json.RawMessage
		if err := json.Unmarshal(userNodes[uid], &bookings); err != nil {
			continue
		}
		for _, key := range children(bookings) {
			records = append(records, decodeBooking(uid, key, bookings[key]))
		}
	}
	return records, nil
}

func (r *bookingRepository) Delete(ctx context.Context, userID, bookingID string) error {
	if err := checkKeys(userID, bookingID); err != nil {
		return err
	}
	path := join(PathBookings, userID, bookingID)
	if err := exists(ctx, r.tree, path, "booking "+bookingID); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := checkKey(userID); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, join(PathBookings, userID)); err != nil {
		return fmt.Errorf("failed to delete bookings: %w", err)
	}
	return nil
}
