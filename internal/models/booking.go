package models

import (
	"encoding/json"
	"strings"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// ParseBookingStatus maps a stored status onto the closed set. A missing
// status is Confirmed, the value every booking form wrote; anything
// unrecognised is Pending.
func ParseBookingStatus(s FlexString) BookingStatus {
	if !s.Valid {
		return BookingStatusConfirmed
	}
	switch strings.ToLower(strings.TrimSpace(s.Value)) {
	case "confirmed":
		return BookingStatusConfirmed
	case "cancelled", "canceled":
		return BookingStatusCancelled
	case "pending":
		return BookingStatusPending
	default:
		return BookingStatusPending
	}
}

type PaymentPreference string

const (
	PaymentCash    PaymentPreference = "cash"
	PaymentFinance PaymentPreference = "finance"
	PaymentLease   PaymentPreference = "lease"
)

// BookingRecord is a booking as found under BookingCar/{userId}/{bookingId}.
// Nothing in it is guaranteed to be present; two write paths produced
// different shapes over time and both are still readable.
type BookingRecord struct {
	ID     string `json:"-"`
	UserID string `json:"-"`

	CarID             FlexString  `json:"carId"`
	CarName           FlexString  `json:"carName"`
	CarImage          FlexString  `json:"carImage"`
	CarModel          FlexString  `json:"carModel"`
	CarYear           FlexInt     `json:"carYear"`
	Price             FlexInt     `json:"price"`
	Discount          FlexInt     `json:"discount"`
	MainFeatures      FeatureList `json:"mainFeatures,omitempty"`
	OwnerName         FlexString  `json:"ownerName"`
	PhoneNumber       FlexString  `json:"phoneNumber"`
	EmailAddress      FlexString  `json:"emailAddress"`
	BookingDate       FlexString  `json:"bookingDate"`
	PickupLocation    FlexString  `json:"pickupLocation"`
	PreferredVariant  FlexString  `json:"preferredVariant"`
	PaymentPreference FlexString  `json:"paymentPreference"`
	Status            FlexString  `json:"status"`
	CreatedAt         FlexString  `json:"createdAt"`

	Legacy LegacyBookingFields `json:"-"`
}

// LegacyBookingFields holds the field names older write paths used for the
// same logical values. They are consulted only when the current name is absent
// and are never written back.
type LegacyBookingFields struct {
	Name     FlexString `json:"name"`
	Image    FlexString `json:"image"`
	Model    FlexString `json:"model"`
	Year     FlexInt    `json:"year"`
	Date     FlexString `json:"date"`
	Location FlexString `json:"location"`
	FullName FlexString `json:"fullName"`
	City     FlexString `json:"city"`
}

func (b *BookingRecord) UnmarshalJSON(data []byte) error {
	type plain BookingRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var legacy LegacyBookingFields
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}

	id, userID := b.ID, b.UserID
	*b = BookingRecord(p)
	b.ID, b.UserID = id, userID
	b.Legacy = legacy
	return nil
}

// NormalizedBooking is the only booking shape handed to callers. Every field
// is populated.
type NormalizedBooking struct {
	BookingID         string        `json:"bookingId"`
	UserID            string        `json:"userId"`
	CarID             string        `json:"carId"`
	CarName           string        `json:"carName"`
	CarImage          string        `json:"carImage"`
	CarModel          string        `json:"carModel"`
	Year              int           `json:"year"`
	Price             int64         `json:"price"`
	Discount          int64         `json:"discount"`
	MainFeatures      FeatureList   `json:"mainFeatures"`
	InCatalog         bool          `json:"inCatalog"`
	OwnerName         string        `json:"ownerName"`
	BookingDate       string        `json:"bookingDate"`
	PickupLocation    string        `json:"pickupLocation"`
	PreferredVariant  string        `json:"preferredVariant"`
	PaymentPreference string        `json:"paymentPreference"`
	Status            BookingStatus `json:"status"`
	CreatedAt         string        `json:"createdAt"`
}

// FinalPrice is price minus discount, floored at zero.
func (n NormalizedBooking) FinalPrice() int64 {
	if n.Discount >= n.Price {
		return 0
	}
	return n.Price - n.Discount
}

// Record converts a normalized booking back into the raw shape.
func (n NormalizedBooking) Record() BookingRecord {
	features := make(FeatureList, len(n.MainFeatures))
	copy(features, n.MainFeatures)

	return BookingRecord{
		ID:                n.BookingID,
		UserID:            n.UserID,
		CarID:             NewFlexString(n.CarID),
		CarName:           NewFlexString(n.CarName),
		CarImage:          NewFlexString(n.CarImage),
		CarModel:          NewFlexString(n.CarModel),
		CarYear:           NewFlexInt(int64(n.Year)),
		Price:             NewFlexInt(n.Price),
		Discount:          NewFlexInt(n.Discount),
		MainFeatures:      features,
		OwnerName:         NewFlexString(n.OwnerName),
		BookingDate:       NewFlexString(n.BookingDate),
		PickupLocation:    NewFlexString(n.PickupLocation),
		PreferredVariant:  NewFlexString(n.PreferredVariant),
		PaymentPreference: NewFlexString(n.PaymentPreference),
		Status:            NewFlexString(string(n.Status)),
		CreatedAt:         NewFlexString(n.CreatedAt),
	}
}

type CreateBookingRequest struct {
	CarID             string `json:"carId" validate:"required"`
	FullName          string `json:"fullName" validate:"required,min=2,max=100"`
	PhoneNumber       string `json:"phoneNumber" validate:"required,phone_number"`
	EmailAddress      string `json:"emailAddress" validate:"required,email_address"`
	PreferredVariant  string `json:"preferredVariant" validate:"required"`
	BookingDate       string `json:"bookingDate" validate:"required"`
	City              string `json:"city" validate:"required"`
	PaymentPreference string `json:"paymentPreference" validate:"required,payment_preference"`
	AgreedToTerms     bool   `json:"agreedToTerms" validate:"required"`
	SendUpdates       bool   `json:"sendUpdates"`
}

// CarVariants lists the colour variants offered per model on the booking form.
var CarVariants = map[string][]string{
	"Ferrari 488 GTB":       {"Red", "Black", "Yellow"},
	"Honda City":            {"Blue", "White", "Grey"},
	"Mahindra XUV700":       {"Black", "White", "Red"},
	"Tata Nexon EV":         {"White", "Blue", "Black"},
	"Maruti Suzuki Swift":   {"Silver", "Red", "Blue"},
	"Ford Mustang (1967)":   {"Yellow", "Black", "Red"},
	"BMW 3 Series":          {"White", "Black", "Silver"},
	"Hyundai i20":           {"Red", "Black", "White"},
	"Audi Q5":               {"White", "Black", "Grey"},
	"Mercedes-Benz C-Class": {"Black", "White", "Silver"},
	"Jeep Compass":          {"Grey", "Black", "Red"},
	"Kia Seltos":            {"Orange", "White", "Black"},
	"MG Hector":             {"Red", "White", "Black"},
	"Nissan Magnite":        {"Silver", "Red", "Blue"},
	"Porsche 911":           {"Yellow", "Red", "Black"},
	"Renault Kwid":          {"Blue", "White", "Red"},
	"Rolls-Royce Phantom":   {"Black", "White", "Blue"},
	"Skoda Slavia":          {"Red", "White", "Silver"},
	"Toyota Innova Crysta":  {"White", "Silver", "Grey"},
	"Volkswagen Virtus":     {"Yellow", "Red", "White"},
}

var defaultVariants = []string{"White", "Black", "Silver"}

func VariantsFor(carName string) []string {
	if v, ok := CarVariants[carName]; ok {
		return v
	}
	return defaultVariants
}
