package services

import (
	"regexp"
	"sort"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

const (
	defaultOwnerName      = "User"
	defaultBookingDate    = "Not specified"
	defaultPickupLocation = "Unknown"
)

// bookingKeySuffix matches the _{unixMillis} suffix of synthetic booking keys.
var bookingKeySuffix = regexp.MustCompile(`_\d{10,}$`)

// CarIDFromBookingKey recovers the vehicle id from a booking key. Both
// {carId} and {carId}_{unixMillis} keys are in use.
func CarIDFromBookingKey(bookingID string) string {
	if loc := bookingKeySuffix.FindStringIndex(bookingID); loc != nil && loc[0] > 0 {
		return bookingID[:loc[0]]
	}
	return bookingID
}

// Reconcile resolves raw booking records against the catalog. Catalog fields
// win when the vehicle still exists, then whatever the record embedded, then
// fixed defaults. The result is in input order and every field is set.
func Reconcile(raw []models.BookingRecord, catalog []models.Vehicle) []models.NormalizedBooking {
	index := make(map[string]*models.Vehicle, len(catalog))
	for i := range catalog {
		if _, seen := index[catalog[i].ID]; !seen {
			index[catalog[i].ID] = &catalog[i]
		}
	}

	out := make([]models.NormalizedBooking, 0, len(raw))
	for i := range raw {
		out = append(out, reconcileOne(&raw[i], index))
	}
	return out
}

func reconcileOne(b *models.BookingRecord, index map[string]*models.Vehicle) models.NormalizedBooking {
	carID := b.CarID.Or(CarIDFromBookingKey(b.ID))
	legacy := &b.Legacy

	n := models.NormalizedBooking{
		BookingID:         b.ID,
		UserID:            b.UserID,
		CarID:             carID,
		CarModel:          firstString(models.NotAvailable, b.CarModel, legacy.Model),
		OwnerName:         firstString(defaultOwnerName, b.OwnerName, legacy.FullName),
		BookingDate:       firstString(defaultBookingDate, b.BookingDate, legacy.Date),
		PickupLocation:    firstString(defaultPickupLocation, b.PickupLocation, legacy.Location, legacy.City),
		PreferredVariant:  b.PreferredVariant.Or(models.NotAvailable),
		PaymentPreference: b.PaymentPreference.Or(models.NotAvailable),
		Status:            models.ParseBookingStatus(b.Status),
		CreatedAt:         b.CreatedAt.Or(""),
	}

	if v, ok := index[carID]; ok {
		n.InCatalog = true
		n.CarName = nonEmpty(v.Name, firstString(models.DefaultCarName, b.CarName, legacy.Name))
		n.CarImage = nonEmpty(v.ImageSrc, firstString(models.PlaceholderImg, b.CarImage, legacy.Image))
		n.Year = v.Year
		n.Price = v.Price
		n.Discount = v.Discount
		n.MainFeatures = copyFeatures(v.MainFeatures)
		return n
	}

	n.CarName = firstString(models.DefaultCarName, b.CarName, legacy.Name)
	n.CarImage = firstString(models.PlaceholderImg, b.CarImage, legacy.Image)
	n.Year = int(firstInt(0, b.CarYear, legacy.Year))
	n.Price = b.Price.Or(0)
	n.Discount = b.Discount.Or(0)
	n.MainFeatures = copyFeatures(b.MainFeatures)
	return n
}

func firstString(fallback string, values ...models.FlexString) string {
	for _, v := range values {
		if v.Valid {
			return v.Value
		}
	}
	return fallback
}

func firstInt(fallback int64, values ...models.FlexInt) int64 {
	for _, v := range values {
		if v.Valid {
			return v.Value
		}
	}
	return fallback
}

func nonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func copyFeatures(in models.FeatureList) models.FeatureList {
	out := make(models.FeatureList, len(in))
	copy(out, in)
	return out
}

// SortByCreatedAtDesc orders bookings newest first. Unparsable timestamps
// sort last; equal keys keep their input order.
func SortByCreatedAtDesc(bookings []models.NormalizedBooking) {
	sortByDateDesc(bookings, func(b *models.NormalizedBooking) string { return b.CreatedAt })
}

// SortByBookingDateDesc orders bookings by the requested booking date.
func SortByBookingDateDesc(bookings []models.NormalizedBooking) {
	sortByDateDesc(bookings, func(b *models.NormalizedBooking) string { return b.BookingDate })
}

func sortByDateDesc(bookings []models.NormalizedBooking, field func(*models.NormalizedBooking) string) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]key, len(bookings))
	lookup := func(b *models.NormalizedBooking) key {
		s := field(b)
		if k, ok := keys[s]; ok {
			return k
		}
		t, ok := utils.ParseLooseTime(s)
		keys[s] = key{t: t, ok: ok}
		return keys[s]
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := lookup(&bookings[i]), lookup(&bookings[j])
		if !a.ok {
			return false
		}
		return !b.ok || a.t.After(b.t)
	})
}
