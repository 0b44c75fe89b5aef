package validators

import (
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

func ValidateBooking(req *models.CreateBookingRequest) ValidationErrors {
	req.FullName = strings.TrimSpace(req.FullName)
	req.EmailAddress = normalizeEmail(req.EmailAddress)
	req.PhoneNumber = utils.StripSpaces(req.PhoneNumber)
	req.PaymentPreference = strings.ToLower(strings.TrimSpace(req.PaymentPreference))
	req.City = strings.TrimSpace(req.City)

	errs := ValidateStruct(req)

	if req.BookingDate != "" {
		if _, ok := utils.ParseLooseTime(req.BookingDate); !ok {
			errs.add("bookingDate", "date", ErrInvalidDate)
		}
	}

	return errs
}

func ValidateInteraction(req *models.RecordInteractionRequest) ValidationErrors {
	req.FeatureID = strings.TrimSpace(req.FeatureID)
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))

	return ValidateStruct(req)
}
