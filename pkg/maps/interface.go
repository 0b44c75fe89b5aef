package maps

import (
	"context"
	"errors"
)

// ErrNoResults is returned when an address cannot be resolved.
var ErrNoResults = errors.New("no geocoding results")

type MapsProvider interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	PlaceID     string   `json:"place_id"`
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// First returns the best match of a geocoding response.
func (r *GeocodeResponse) First() (GeocodeResult, error) {
	if r == nil || len(r.Results) == 0 {
		return GeocodeResult{}, ErrNoResults
	}
	return r.Results[0], nil
}

// NoopProvider resolves nothing; showrooms are saved without coordinates.
type NoopProvider struct{}

func (NoopProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	return &GeocodeResponse{}, nil
}
