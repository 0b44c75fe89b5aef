package rtdb

import (
	"fmt"
	"strings"

	"yelocar/internal/models"
)

// Top-level nodes of the realtime database.
const (
	PathCars         = "cars"
	PathBookings     = "BookingCar"
	PathInteractions = "featureInteractions"
	PathUsers        = "users"
	PathStaff        = "staff"
	PathShowrooms    = "showrooms"
	PathMessages     = "message"
	PathContactForms = "contactForms"
)

func join(parts ...string) string {
	return strings.Join(parts, "/")
}

// checkKey rejects keys the database cannot store or that would address a
// different node.
func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", models.ErrValidation)
	}
	if strings.ContainsAny(key, ".$#[]/") {
		return fmt.Errorf("%w: key %q contains a reserved character", models.ErrValidation, key)
	}
	return nil
}

func checkKeys(keys ...string) error {
	for _, k := range keys {
		if err := checkKey(k); err != nil {
			return err
		}
	}
	return nil
}
