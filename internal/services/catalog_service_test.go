package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/repositories/rtdb"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"
)

func TestCreateVehicleDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	v, err := f.catalog.CreateVehicle(ctx, "admin-1", &models.CreateVehicleRequest{
		Name:         " Tata Nexon EV ",
		Price:        1500000,
		Category:     "SUV",
		FuelType:     "Electric",
		Transmission: "Automatic",
		Features:     []string{"Sunroof", " ", "ABS", "Airbags", "Cruise Control"},
	})
	if err != nil {
		t.Fatalf("CreateVehicle() error = %v", err)
	}
	if v.ID == "" || v.Name != "Tata Nexon EV" {
		t.Fatalf("unexpected vehicle: %+v", v)
	}
	if v.Year != time.Now().Year() || v.Discount != 0 || v.ImageSrc != models.PlaceholderImg || v.Status != models.VehicleStatusActive {
		t.Fatalf("defaults not applied: %+v", v)
	}
	if len(v.MainFeatures) != 3 || v.MainFeatures[1].Name != "ABS" || len(v.AllFeatures) != 4 {
		t.Fatalf("features = %+v / %v", v.MainFeatures, v.AllFeatures)
	}

	stored, err := f.catalog.GetVehicle(ctx, v.ID, false)
	if err != nil || stored.Name != v.Name {
		t.Fatalf("GetVehicle() = %+v, %v", stored, err)
	}
	if f.publisher.count(utils.TopicBookings) != 1 || f.publisher.count(utils.TopicInteractions) != 1 {
		t.Fatalf("catalog write should refresh both live topics: %v", f.publisher.topics)
	}
}

func TestCreateVehicleRejectsDiscountAbovePrice(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.CreateVehicle(context.Background(), "admin-1", &models.CreateVehicleRequest{
		Name: "Honda City", Price: 100, Discount: 200, Category: "Sedan", FuelType: "Petrol", Transmission: "Manual",
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListVehiclesHidesInactive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	public, err := f.catalog.ListVehicles(ctx, false)
	if err != nil {
		t.Fatalf("ListVehicles() error = %v", err)
	}
	if len(public) != 1 || public[0].ID != "honda-city" {
		t.Fatalf("public catalog = %+v", public)
	}

	all, err := f.catalog.ListVehicles(ctx, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("full catalog = %+v, %v", all, err)
	}

	if _, err := f.catalog.GetVehicle(ctx, "kia-seltos", false); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("inactive vehicle should be hidden, got %v", err)
	}
}

func TestCatalogCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	if _, err := f.catalog.ListVehicles(ctx, true); err != nil {
		t.Fatalf("ListVehicles() error = %v", err)
	}

	// A direct write is invisible while the cached catalog is live.
	f.seed(t, "cars/direct", `{"name": "Direct Write", "price": 1}`)
	cached, _ := f.catalog.ListVehicles(ctx, true)
	if len(cached) != 2 {
		t.Fatalf("expected cached catalog of 2, got %d", len(cached))
	}

	if _, err := f.catalog.ToggleVehicleStatus(ctx, "admin-1", "kia-seltos"); err != nil {
		t.Fatalf("ToggleVehicleStatus() error = %v", err)
	}
	fresh, _ := f.catalog.ListVehicles(ctx, true)
	if len(fresh) != 3 {
		t.Fatalf("expected refreshed catalog of 3, got %d", len(fresh))
	}
}

// stalledList holds its first List result until release is closed.
type stalledList struct {
	interfaces.VehicleRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *stalledList) List(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := r.VehicleRepository.List(ctx)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return vehicles, err
}

func TestSlowListDoesNotCacheOverWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	repo := &stalledList{
		VehicleRepository: rtdb.NewVehicleRepository(f.tree),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	catalog := NewCatalogService(repo, f.storage, f.cache, NewAuditService(nil, logger.Discard()), nil, logger.Discard())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = catalog.ListVehicles(ctx, false)
	}()
	<-repo.entered

	if _, err := catalog.ToggleVehicleStatus(ctx, "admin-1", "kia-seltos"); err != nil {
		t.Fatalf("ToggleVehicleStatus() error = %v", err)
	}
	close(repo.release)
	<-done

	active, err := catalog.ListVehicles(ctx, false)
	if err != nil {
		t.Fatalf("ListVehicles() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected both vehicles active after the toggle, got %d", len(active))
	}
}

func TestToggleVehicleStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	v, err := f.catalog.ToggleVehicleStatus(ctx, "admin-1", "honda-city")
	if err != nil || v.Status != models.VehicleStatusInactive {
		t.Fatalf("first toggle = %+v, %v", v, err)
	}
	v, err = f.catalog.ToggleVehicleStatus(ctx, "admin-1", "honda-city")
	if err != nil || v.Status != models.VehicleStatusActive {
		t.Fatalf("second toggle = %+v, %v", v, err)
	}

	if _, err := f.catalog.ToggleVehicleStatus(ctx, "admin-1", "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateVehicle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	price := int64(40000)
	if _, err := f.catalog.UpdateVehicle(ctx, "admin-1", "honda-city", &models.UpdateVehicleRequest{Price: &price}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("price below the stored discount should fail, got %v", err)
	}

	name := "Honda City e:HEV"
	features := []string{"Hybrid", "ADAS"}
	v, err := f.catalog.UpdateVehicle(ctx, "admin-1", "honda-city", &models.UpdateVehicleRequest{Name: &name, Features: &features})
	if err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}
	if v.Name != name || v.Price != 1200000 || v.Discount != 50000 || len(v.MainFeatures) != 2 || v.UpdatedAt == "" {
		t.Fatalf("unexpected update result: %+v", v)
	}

	stored, _ := f.catalog.GetVehicle(ctx, "honda-city", true)
	if stored.Name != name {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestDeleteVehicle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	if err := f.catalog.DeleteVehicle(ctx, "admin-1", "honda-city"); err != nil {
		t.Fatalf("DeleteVehicle() error = %v", err)
	}
	if err := f.catalog.DeleteVehicle(ctx, "admin-1", "honda-city"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
	if n, _ := f.catalog.CountVehicles(ctx); n != 1 {
		t.Fatalf("expected 1 vehicle left, got %d", n)
	}
}

func TestUploadVehicleImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2400, 1200))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	v, err := f.catalog.UploadVehicleImage(ctx, "admin-1", "honda-city", "front.png", &buf)
	if err != nil {
		t.Fatalf("UploadVehicleImage() error = %v", err)
	}
	if !strings.HasPrefix(v.ImageSrc, "https://cdn.test/cars/honda-city/") || !strings.HasSuffix(v.ImageSrc, ".png") {
		t.Fatalf("imageSrc = %q", v.ImageSrc)
	}

	for _, data := range f.storage.uploads {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("stored image not decodable: %v", err)
		}
		if b := img.Bounds(); b.Dx() != utils.MaxImageWidth || b.Dy() != 600 {
			t.Fatalf("stored image is %dx%d", b.Dx(), b.Dy())
		}
	}

	if _, err := f.catalog.UploadVehicleImage(ctx, "admin-1", "honda-city", "notes.txt", strings.NewReader("x")); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for non-image, got %v", err)
	}
}
