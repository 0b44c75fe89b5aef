package models

import (
	"encoding/json"
	"time"
)

type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusInactive VehicleStatus = "inactive"
)

const (
	DefaultCarName  = "Unknown Car"
	PlaceholderImg  = "/placeholder.png"
	NotAvailable    = "N/A"
	MainFeatureSize = 3
)

// MainFeature is a highlighted feature shown on a vehicle card. Icon is an
// opaque reference resolved by the client.
type MainFeature struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

func (f *MainFeature) UnmarshalJSON(data []byte) error {
	*f = MainFeature{}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		f.Name = name
		return nil
	}

	var raw struct {
		Name FlexString `json:"name"`
		Icon FlexString `json:"icon"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name.Value
	f.Icon = raw.Icon.Value
	return nil
}

// Vehicle is a catalog entry under cars/{id}. The catalog is authoritative for
// every vehicle-derived field of a booking.
type Vehicle struct {
	ID           string        `json:"id"`
	Name         string        `json:"name" validate:"required,min=2,max=100"`
	Year         int           `json:"year"`
	Price        int64         `json:"price" validate:"gte=0"`
	Discount     int64         `json:"discount" validate:"gte=0"`
	ImageSrc     string        `json:"imageSrc"`
	ImageAlt     string        `json:"imageAlt,omitempty"`
	Category     string        `json:"category"`
	Type         string        `json:"type,omitempty"`
	FuelType     string        `json:"fuelType"`
	Transmission string        `json:"transmission"`
	Location     string        `json:"location"`
	Mileage      string        `json:"mileage"`
	Description  string        `json:"description,omitempty"`
	MainFeatures FeatureList   `json:"mainFeatures"`
	AllFeatures  []string      `json:"allFeatures,omitempty"`
	Status       VehicleStatus `json:"status"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
}

func (v *Vehicle) IsActive() bool {
	return v.Status == "" || v.Status == VehicleStatusActive
}

// FinalPrice is the price after discount, never negative.
func (v *Vehicle) FinalPrice() int64 {
	if v.Discount >= v.Price {
		return 0
	}
	return v.Price - v.Discount
}

type CreateVehicleRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Price        int64    `json:"price" validate:"required,gt=0"`
	Discount     int64    `json:"discount" validate:"gte=0"`
	Year         int      `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Category     string   `json:"category" validate:"required"`
	FuelType     string   `json:"fuelType" validate:"required"`
	Transmission string   `json:"transmission" validate:"required"`
	Location     string   `json:"location"`
	Mileage      string   `json:"mileage"`
	Description  string   `json:"description" validate:"max=2000"`
	ImageURL     string   `json:"imageUrl" validate:"omitempty,url"`
	Features     []string `json:"features" validate:"dive,required"`
}

type UpdateVehicleRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Price        *int64    `json:"price" validate:"omitempty,gt=0"`
	Discount     *int64    `json:"discount" validate:"omitempty,gte=0"`
	Year         *int      `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Category     *string   `json:"category"`
	FuelType     *string   `json:"fuelType"`
	Transmission *string   `json:"transmission"`
	Location     *string   `json:"location"`
	Mileage      *string   `json:"mileage"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string   `json:"imageUrl" validate:"omitempty,url"`
	Features     *[]string `json:"features" validate:"omitempty,dive,required"`
}

// MainFeaturesFrom picks the first three features for the vehicle card.
func MainFeaturesFrom(features []string) FeatureList {
	out := make(FeatureList, 0, MainFeatureSize)
	for _, f := range features {
		if len(out) == MainFeatureSize {
			break
		}
		out = append(out, MainFeature{Name: f})
	}
	return out
}

func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
