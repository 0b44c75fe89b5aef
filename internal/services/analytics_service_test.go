package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

func TestOverviewCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)
	f.seed(t, "BookingCar/u1/honda-city", `{"createdAt": "2024-06-01T10:00:00Z"}`)
	f.seed(t, "users", `{"u1": {"role": "buyer"}, "u2": {"role": "admin"}}`)
	f.seed(t, "staff/s1", `{"firstName": "Ravi"}`)
	f.seed(t, "showrooms", `{"r1": {"name": "A"}, "r2": {"name": "B"}}`)
	f.seed(t, "contactForms/c1", `{"message": "hi", "createdAt": "2024-06-01T10:00:00Z"}`)
	f.seed(t, "message/u1", `{"Message": "hi"}`)

	overview, err := f.analytics.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	want := models.Overview{Vehicles: 2, Bookings: 1, Users: 2, Staff: 1, Showrooms: 2, Contacts: 2}
	if *overview != want {
		t.Fatalf("Overview() = %+v, want %+v", *overview, want)
	}
}

func TestCarAnalytics(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.seed(t, "featureInteractions", `{
		"e1": {"featureId": "honda-city", "action": "view", "timestamp": "2024-06-01T10:00:00Z"},
		"e2": {"featureId": "honda-city", "action": "like", "timestamp": "2024-06-01T10:01:00Z"},
		"e3": {"featureId": "kia-seltos", "action": "view", "timestamp": "2024-06-01T10:02:00Z"},
		"e4": {"featureId": "retired", "action": "view", "timestamp": "2024-06-01T10:03:00Z"}
	}`)

	a, err := f.analytics.CarAnalytics(context.Background())
	if err != nil {
		t.Fatalf("CarAnalytics() error = %v", err)
	}
	if a.TotalVehicles != 2 || a.ActiveVehicles != 1 || a.TotalInteractions != 3 {
		t.Fatalf("totals = %+v", a)
	}
	if len(a.TopPerforming) == 0 || a.TopPerforming[0].VehicleID != "honda-city" {
		t.Fatalf("top = %+v", a.TopPerforming)
	}
}

func TestSnapshotTopics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)
	svc := f.analytics.(*analyticsService)
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC) }
	f.seed(t, "BookingCar/u1/honda-city", `{"bookingDate": "2024-06-03", "createdAt": "2024-06-03T09:00:00Z", "paymentPreference": "cash"}`)
	f.seed(t, "featureInteractions/e1", `{"featureId": "honda-city", "action": "view", "timestamp": "2024-06-03T10:00:00Z"}`)

	payload, err := f.analytics.Snapshot(ctx, utils.TopicBookings)
	if err != nil {
		t.Fatalf("Snapshot(bookings) error = %v", err)
	}
	live, ok := payload.(*models.LiveBookings)
	if !ok {
		t.Fatalf("bookings payload is %T", payload)
	}
	if len(live.Bookings) != 1 || live.Analytics.TotalBookings != 1 || live.Analytics.TotalRevenue != 1150000 {
		t.Fatalf("bookings snapshot = %+v", live.Analytics)
	}

	payload, err = f.analytics.Snapshot(ctx, utils.TopicInteractions)
	if err != nil {
		t.Fatalf("Snapshot(interactions) error = %v", err)
	}
	interactions, ok := payload.(*models.LiveInteractions)
	if !ok || len(interactions.Recent) != 1 || interactions.Analytics.TotalInteractions != 1 {
		t.Fatalf("interactions snapshot = %#v", payload)
	}

	if _, err := f.analytics.Snapshot(ctx, "weather"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for unknown topic, got %v", err)
	}
}
