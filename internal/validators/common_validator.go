package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/utils"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names so messages match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("email_address", validateEmailAddress)
	validate.RegisterValidation("booking_status", validateBookingStatus)
	validate.RegisterValidation("payment_preference", validatePaymentPreference)
	validate.RegisterValidation("interaction_action", validateInteractionAction)
}

var (
	ErrInvalidPhoneNumber = errors.New("please enter a valid 10-digit phone number")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidDate        = errors.New("invalid date")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Unwrap lets callers match validation failures with errors.Is.
func (v ValidationErrors) Unwrap() error {
	return models.ErrValidation
}

// Map keys messages by field for the error details of a response.
func (v ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := out[err.Field]; !ok {
			out[err.Field] = err.Message
		}
	}
	return out
}

func (v *ValidationErrors) add(field, tag string, err error) {
	*v = append(*v, ValidationError{Field: field, Tag: tag, Message: err.Error()})
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "body", Tag: "invalid", Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email", "email_address":
		return "Please enter a valid email address"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "eqfield":
		return "Passwords do not match"
	case "phone_number":
		return "Please enter a valid 10-digit phone number"
	case "booking_status":
		return "Status must be Confirmed, Pending or Cancelled"
	case "payment_preference":
		return "Payment preference must be cash, finance or lease"
	case "interaction_action":
		return "Action must be view, like, share or contact"
	case "datetime":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", err.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", err.Field())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true // Let required tag handle empty values
	}
	return utils.IsValidPhone(phone)
}

func validateEmailAddress(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	if email == "" {
		return true
	}
	return utils.IsValidEmail(email)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	switch models.BookingStatus(fl.Field().String()) {
	case models.BookingStatusConfirmed, models.BookingStatusPending, models.BookingStatusCancelled:
		return true
	}
	return false
}

func validatePaymentPreference(fl validator.FieldLevel) bool {
	switch models.PaymentPreference(strings.ToLower(fl.Field().String())) {
	case models.PaymentCash, models.PaymentFinance, models.PaymentLease:
		return true
	}
	return false
}

func validateInteractionAction(fl validator.FieldLevel) bool {
	return models.InteractionAction(fl.Field().String()).Valid()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
