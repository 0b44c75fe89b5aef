package services

import (
	"encoding/json"
	"reflect"
	"testing"

	"yelocar/internal/models"
)

func testCatalog() []models.Vehicle {
	return []models.Vehicle{
		{
			ID:           "honda-city",
			Name:         "Honda City",
			Year:         2024,
			Price:        1200000,
			Discount:     50000,
			ImageSrc:     "/cars/honda-city.jpg",
			Category:     "Sedan",
			MainFeatures: models.FeatureList{{Name: "Sunroof"}, {Name: "ABS"}},
			Status:       models.VehicleStatusActive,
		},
		{
			ID:       "tata-nexon-ev",
			Name:     "Tata Nexon EV",
			Year:     2023,
			Price:    1450000,
			ImageSrc: "/cars/nexon.jpg",
			Category: "SUV",
			Status:   models.VehicleStatusActive,
		},
	}
}

func decodeRecord(t *testing.T, userID, bookingID, raw string) models.BookingRecord {
	t.Helper()
	var rec models.BookingRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("decode booking %s: %v", bookingID, err)
	}
	rec.ID = bookingID
	rec.UserID = userID
	return rec
}

func TestReconcileCatalogWins(t *testing.T) {
	rec := decodeRecord(t, "u1", "honda-city_1717000000000",
		`{"carId":"honda-city","price":999,"ownerName":"Asha","status":"Confirmed"}`)

	got := Reconcile([]models.BookingRecord{rec}, testCatalog())
	if len(got) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(got))
	}
	b := got[0]
	if b.Price != 1200000 || b.Discount != 50000 {
		t.Fatalf("expected catalog price/discount, got %d/%d", b.Price, b.Discount)
	}
	if b.OwnerName != "Asha" || b.Status != models.BookingStatusConfirmed {
		t.Fatalf("booking fields not passed through: %+v", b)
	}
	if !b.InCatalog || b.CarName != "Honda City" || b.CarImage != "/cars/honda-city.jpg" || b.Year != 2024 {
		t.Fatalf("vehicle fields not resolved from catalog: %+v", b)
	}
	if len(b.MainFeatures) != 2 || b.MainFeatures[0].Name != "Sunroof" {
		t.Fatalf("expected catalog features, got %+v", b.MainFeatures)
	}
	if b.BookingID != "honda-city_1717000000000" || b.UserID != "u1" {
		t.Fatalf("ids not preserved: %q %q", b.BookingID, b.UserID)
	}
}

func TestReconcileDeletedVehicleFallsBack(t *testing.T) {
	rec := decodeRecord(t, "u1", "deleted-car-1", `{"carId":"deleted-car-1","carName":"Old Sedan"}`)

	b := Reconcile([]models.BookingRecord{rec}, testCatalog())[0]
	if b.CarName != "Old Sedan" {
		t.Fatalf("expected embedded car name, got %q", b.CarName)
	}
	if b.Price != 0 {
		t.Fatalf("expected price 0, got %d", b.Price)
	}
	if b.CarImage != models.PlaceholderImg {
		t.Fatalf("expected placeholder image, got %q", b.CarImage)
	}
	if b.InCatalog {
		t.Fatalf("deleted vehicle reported as in catalog")
	}
}

func TestReconcilePriceProperties(t *testing.T) {
	catalog := testCatalog()
	cases := []struct {
		name string
		raw  string
		want int64
	}{
		{"catalog present", `{"carId":"tata-nexon-ev","price":1}`, 1450000},
		{"embedded price", `{"carId":"gone","price":750000}`, 750000},
		{"embedded string price", `{"carId":"gone","price":"7,50,000"}`, 750000},
		{"no price anywhere", `{"carId":"gone"}`, 0},
		{"unusable price", `{"carId":"gone","price":{"amount":5}}`, 0},
	}

	for _, tc := range cases {
		rec := decodeRecord(t, "u", "b-"+tc.name, tc.raw)
		got := Reconcile([]models.BookingRecord{rec}, catalog)[0].Price
		if got != tc.want {
			t.Fatalf("%s: expected price %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestReconcileLegacyShape(t *testing.T) {
	rec := decodeRecord(t, "u2", "swift-legacy",
		`{"name":"Maruti Suzuki Swift","image":"/swift.png","model":"VXI","year":"2019","date":"2024-05-01","location":"Pune","status":"pending"}`)

	b := Reconcile([]models.BookingRecord{rec}, testCatalog())[0]
	if b.CarID != "swift-legacy" {
		t.Fatalf("expected car id from key, got %q", b.CarID)
	}
	if b.CarName != "Maruti Suzuki Swift" || b.CarImage != "/swift.png" || b.CarModel != "VXI" {
		t.Fatalf("legacy vehicle fields not used: %+v", b)
	}
	if b.Year != 2019 || b.BookingDate != "2024-05-01" || b.PickupLocation != "Pune" {
		t.Fatalf("legacy booking fields not used: %+v", b)
	}
	if b.Status != models.BookingStatusPending {
		t.Fatalf("expected Pending, got %q", b.Status)
	}
}

func TestReconcileCarIDFromKey(t *testing.T) {
	for _, key := range []string{"honda-city", "honda-city_1717000000000"} {
		rec := decodeRecord(t, "u", key, `{"ownerName":"Ravi"}`)
		b := Reconcile([]models.BookingRecord{rec}, testCatalog())[0]
		if b.CarID != "honda-city" || !b.InCatalog {
			t.Fatalf("key %s: expected honda-city from catalog, got %q (in catalog %v)", key, b.CarID, b.InCatalog)
		}
	}
}

func TestReconcileDefaultsAreTotal(t *testing.T) {
	rec := decodeRecord(t, "u", "mystery", `{}`)

	b := Reconcile([]models.BookingRecord{rec}, nil)[0]
	want := models.NormalizedBooking{
		BookingID:         "mystery",
		UserID:            "u",
		CarID:             "mystery",
		CarName:           models.DefaultCarName,
		CarImage:          models.PlaceholderImg,
		CarModel:          models.NotAvailable,
		MainFeatures:      models.FeatureList{},
		OwnerName:         "User",
		BookingDate:       "Not specified",
		PickupLocation:    "Unknown",
		PreferredVariant:  models.NotAvailable,
		PaymentPreference: models.NotAvailable,
		Status:            models.BookingStatusConfirmed,
	}
	if !reflect.DeepEqual(b, want) {
		t.Fatalf("unexpected defaults:\n got %+v\nwant %+v", b, want)
	}
	if b.MainFeatures == nil {
		t.Fatalf("main features must not be nil")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	catalog := testCatalog()
	raws := []models.BookingRecord{
		decodeRecord(t, "u1", "honda-city_1717000000000", `{"carId":"honda-city","price":999,"ownerName":"Asha"}`),
		decodeRecord(t, "u1", "deleted-car-1", `{"carName":"Old Sedan","carYear":"2011","status":"weird"}`),
		decodeRecord(t, "u2", "x", `{"name":"Legacy","location":"Goa","createdAt":"not a date"}`),
		decodeRecord(t, "u2", "y", `{}`),
	}

	first := Reconcile(raws, catalog)
	records := make([]models.BookingRecord, len(first))
	for i, n := range first {
		records[i] = n.Record()
	}
	second := Reconcile(records, catalog)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reconcile not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestReconcileDoesNotAliasCatalog(t *testing.T) {
	catalog := testCatalog()
	rec := decodeRecord(t, "u", "honda-city", `{}`)

	b := Reconcile([]models.BookingRecord{rec}, catalog)[0]
	b.MainFeatures[0].Name = "changed"
	if catalog[0].MainFeatures[0].Name != "Sunroof" {
		t.Fatalf("reconciled booking shares feature storage with the catalog")
	}
}

func TestSortByCreatedAtDesc(t *testing.T) {
	bookings := []models.NormalizedBooking{
		{BookingID: "a", CreatedAt: "2024-01-01T10:00:00Z"},
		{BookingID: "b", CreatedAt: "garbage"},
		{BookingID: "c", CreatedAt: "2024-03-01T10:00:00Z"},
		{BookingID: "d", CreatedAt: ""},
		{BookingID: "e", CreatedAt: "2024-03-01T10:00:00.000Z"},
	}

	SortByCreatedAtDesc(bookings)

	want := []string{"c", "e", "a", "b", "d"}
	for i, id := range want {
		if bookings[i].BookingID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, bookings[i].BookingID)
		}
	}
}

func TestSortByBookingDateDesc(t *testing.T) {
	bookings := []models.NormalizedBooking{
		{BookingID: "a", BookingDate: "Not specified"},
		{BookingID: "b", BookingDate: "2024-07-01"},
		{BookingID: "c", BookingDate: "2024-07-15T10:30"},
	}

	SortByBookingDateDesc(bookings)

	if bookings[0].BookingID != "c" || bookings[1].BookingID != "b" || bookings[2].BookingID != "a" {
		t.Fatalf("unexpected order: %s %s %s", bookings[0].BookingID, bookings[1].BookingID, bookings[2].BookingID)
	}
}

func TestCarIDFromBookingKey(t *testing.T) {
	cases := map[string]string{
		"honda-city":               "honda-city",
		"honda-city_1717000000000": "honda-city",
		"car_2024":                 "car_2024",
		"-NxYz_1717000000000":      "-NxYz",
		"_1717000000000":           "_1717000000000",
	}
	for in, want := range cases {
		if got := CarIDFromBookingKey(in); got != want {
			t.Fatalf("CarIDFromBookingKey(%q) = %q, want %q", in, got, want)
		}
	}
}
