package services

import (
	"context"
	"errors"
	"testing"

	"yelocar/internal/models"
	"yelocar/pkg/maps"
)

func showroomRequest() *models.ShowroomRequest {
	return &models.ShowroomRequest{
		Name:    "Yelo Baner",
		Address: "12 Baner Road",
		City:    "Pune",
		State:   "Maharashtra",
		Phone:   "020 123 4567",
	}
}

func TestCreateShowroomGeocodes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.geocoder.result = &maps.GeocodeResponse{Results: []maps.GeocodeResult{{
		Coordinates: maps.Location{Latitude: 18.559, Longitude: 73.786},
	}}}

	sr, err := f.showrooms.CreateShowroom(ctx, "admin-1", showroomRequest())
	if err != nil {
		t.Fatalf("CreateShowroom() error = %v", err)
	}
	if sr.ID == "" || sr.Status != models.ShowroomStatusActive || sr.Phone != "0201234567" {
		t.Fatalf("unexpected showroom: %+v", sr)
	}
	if sr.Latitude == nil || *sr.Latitude != 18.559 || *sr.Longitude != 73.786 {
		t.Fatalf("coordinates not set: %+v", sr)
	}

	// Same address: no second lookup.
	if _, err := f.showrooms.UpdateShowroom(ctx, "admin-1", sr.ID, showroomRequest()); err != nil {
		t.Fatalf("UpdateShowroom() error = %v", err)
	}
	if f.geocoder.calls != 1 {
		t.Fatalf("geocoder calls = %d", f.geocoder.calls)
	}

	moved := showroomRequest()
	moved.Address = "4 FC Road"
	if _, err := f.showrooms.UpdateShowroom(ctx, "admin-1", sr.ID, moved); err != nil {
		t.Fatalf("UpdateShowroom(moved) error = %v", err)
	}
	if f.geocoder.calls != 2 {
		t.Fatalf("moved showroom should be geocoded again, calls = %d", f.geocoder.calls)
	}
}

func TestCreateShowroomWithoutCoordinates(t *testing.T) {
	f := newFixture(t)
	f.geocoder.err = errors.New("quota exceeded")

	sr, err := f.showrooms.CreateShowroom(context.Background(), "admin-1", showroomRequest())
	if err != nil {
		t.Fatalf("geocoding failure must not block the write: %v", err)
	}
	if sr.Latitude != nil || sr.Longitude != nil {
		t.Fatalf("coordinates should be empty: %+v", sr)
	}
}

func TestToggleShowroomStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sr, err := f.showrooms.CreateShowroom(ctx, "admin-1", showroomRequest())
	if err != nil {
		t.Fatalf("CreateShowroom() error = %v", err)
	}
	toggled, err := f.showrooms.ToggleShowroomStatus(ctx, "admin-1", sr.ID)
	if err != nil || toggled.Status != models.ShowroomStatusInactive {
		t.Fatalf("toggle = %+v, %v", toggled, err)
	}

	public, _ := f.showrooms.ListShowrooms(ctx, false)
	all, _ := f.showrooms.ListShowrooms(ctx, true)
	if len(public) != 0 || len(all) != 1 {
		t.Fatalf("public=%d all=%d", len(public), len(all))
	}

	if _, err := f.showrooms.ToggleShowroomStatus(ctx, "admin-1", "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.showrooms.DeleteShowroom(ctx, "admin-1", sr.ID); err != nil {
		t.Fatalf("DeleteShowroom() error = %v", err)
	}
	if _, err := f.showrooms.GetShowroom(ctx, sr.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("deleted showroom still readable: %v", err)
	}
}
