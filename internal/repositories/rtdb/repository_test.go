package rtdb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"yelocar/internal/models"
)

func seed(t *testing.T, tree *MemoryTree, path, doc string) {
	t.Helper()
	var v interface{}
	if err := jsonUnmarshal(doc, &v); err != nil {
		t.Fatalf("bad fixture %s: %v", path, err)
	}
	if err := tree.Set(context.Background(), path, v); err != nil {
		t.Fatalf("Set(%s) error = %v", path, err)
	}
}

func TestVehicleRepositoryTolerantDecode(t *testing.T) {
	ctx := context.Background()
	tree := NewMemoryTree()
	seed(t, tree, "cars", `{
		"b": {"name": "Honda City", "price": "12,00,000", "discount": 50000, "year": "2023",
		      "mainFeatures": {"0": {"name": "Sunroof"}, "1": "ABS"}, "allFeatures": ["Sunroof", "ABS", "Airbags"]},
		"a": {"name": "Kia Seltos", "price": 1500000, "status": "inactive"},
		"c": "not a car"
	}`)

	repo := NewVehicleRepository(tree)
	vehicles, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(vehicles) != 2 || vehicles[0].ID != "a" || vehicles[1].ID != "b" {
		t.Fatalf("List() = %+v", vehicles)
	}

	city := vehicles[1]
	if city.Price != 1200000 || city.Year != 2023 || city.Discount != 50000 {
		t.Fatalf("numbers not decoded: %+v", city)
	}
	if len(city.MainFeatures) != 2 || city.MainFeatures[1].Name != "ABS" {
		t.Fatalf("mainFeatures = %+v", city.MainFeatures)
	}
	if city.Status != models.VehicleStatusActive {
		t.Fatalf("missing status should read as active, got %q", city.Status)
	}
	if vehicles[0].Status != models.VehicleStatusInactive {
		t.Fatalf("status = %q", vehicles[0].Status)
	}
}

func TestVehicleRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(NewMemoryTree())

	v := &models.Vehicle{Name: "Audi Q5", Price: 6500000, Status: models.VehicleStatusActive}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v.ID == "" {
		t.Fatalf("Create() did not assign an id")
	}

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil || got.Name != "Audi Q5" || got.ID != v.ID {
		t.Fatalf("GetByID() = %+v, %v", got, err)
	}

	if err := repo.UpdateFields(ctx, v.ID, map[string]interface{}{"status": "inactive"}); err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}
	got, _ = repo.GetByID(ctx, v.ID)
	if got.Status != models.VehicleStatusInactive {
		t.Fatalf("status = %q", got.Status)
	}

	if err := repo.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, v.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, v.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRepositoriesRejectReservedKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(NewMemoryTree())
	for _, id := range []string{"", "a/b", "a.b", "a#b", "a$b", "a[0]"} {
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, models.ErrValidation) {
			t.Fatalf("GetByID(%q) error = %v, want ErrValidation", id, err)
		}
	}
}

func TestBookingRepositoryListAllFlattens(t *testing.T) {
	ctx := context.Background()
	tree := NewMemoryTree()
	seed(t, tree, "BookingCar", `{
		"u2": {"honda-city_1718000000000": {"carId": "honda-city", "ownerName": "Ravi"}},
		"u1": {
			"kia": {"name": "Kia Seltos", "date": "2024-06-01"},
			"broken": "oops"
		},
		"u3": "not an object"
	}`)

	repo := NewBookingRepository(tree)
	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ListAll() returned %d records, want 3", len(records))
	}

	if records[0].UserID != "u1" || records[0].ID != "broken" {
		t.Fatalf("records[0] = %s/%s", records[0].UserID, records[0].ID)
	}
	if records[0].CarID.Valid {
		t.Fatalf("malformed record should decode empty")
	}
	if records[1].ID != "kia" || records[1].Legacy.Name.Value != "Kia Seltos" {
		t.Fatalf("legacy record = %+v", records[1])
	}
	if records[2].UserID != "u2" || records[2].OwnerName.Value != "Ravi" {
		t.Fatalf("records[2] = %+v", records[2])
	}
}

func TestBookingRepositoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewMemoryTree())

	record := &models.BookingRecord{
		ID:        "honda-city_1718000000000",
		UserID:    "u1",
		CarID:     models.NewFlexString("honda-city"),
		OwnerName: models.NewFlexString("Asha"),
		Status:    models.NewFlexString(string(models.BookingStatusConfirmed)),
	}
	if err := repo.Put(ctx, record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "u1", record.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CarID.Value != "honda-city" || got.UserID != "u1" || got.CarName.Valid {
		t.Fatalf("Get() = %+v", got)
	}

	list, _ := repo.ListByUser(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("ListByUser() = %d records", len(list))
	}

	if err := repo.Delete(ctx, "u1", record.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "u1", record.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Delete() missing error = %v", err)
	}
}

func TestInteractionRepositoryListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewInteractionRepository(NewMemoryTree())

	stamps := []string{"2024-06-01T10:00:00Z", "2024-06-03T10:00:00Z", "2024-06-02T10:00:00Z"}
	for _, ts := range stamps {
		e := &models.InteractionEvent{FeatureID: "honda-city", Action: models.ActionView, Timestamp: ts}
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if e.ID == "" {
			t.Fatalf("Append() did not set id")
		}
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Timestamp != stamps[1] || recent[1].Timestamp != stamps[2] {
		t.Fatalf("ListRecent() = %+v", recent)
	}

	all, _ := repo.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("ListAll() = %d events", len(all))
	}
}

func TestUserRepositoryTolerantProfile(t *testing.T) {
	ctx := context.Background()
	tree := NewMemoryTree()
	seed(t, tree, "users", `{
		"u1": {"fullName": "Asha", "phoneNo": 9876543210, "role": "admin"},
		"u2": "junk"
	}`)

	repo := NewUserRepository(tree)
	p, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if p.Role != models.RoleAdmin || p.PhoneNumber != "9876543210" || p.UID != "u1" {
		t.Fatalf("profile = %+v", p)
	}

	if _, err := repo.GetByID(ctx, "u2"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("malformed profile error = %v, want ErrNotFound", err)
	}

	n, _ := repo.Count(ctx)
	if n != 2 {
		t.Fatalf("Count() = %d", n)
	}
}

func TestShowroomRepositorySetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewShowroomRepository(NewMemoryTree())

	s := &models.Showroom{Name: "YeloCar Pune", City: "Pune", Status: models.ShowroomStatusActive}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetStatus(ctx, s.ID, models.ShowroomStatusInactive); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, s.ID)
	if got.Status != models.ShowroomStatusInactive || got.UpdatedAt == "" {
		t.Fatalf("showroom = %+v", got)
	}
	if err := repo.SetStatus(ctx, "missing", models.ShowroomStatusActive); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("SetStatus(missing) error = %v", err)
	}
}

func TestContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(NewMemoryTree())

	for _, ts := range []string{"2024-06-01T00:00:00Z", "2024-06-02T00:00:00Z"} {
		if err := repo.CreateForm(ctx, &models.ContactForm{Name: "Asha", Message: "Hello there", CreatedAt: ts}); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}
	}
	forms, err := repo.ListForms(ctx, 50)
	if err != nil {
		t.Fatalf("ListForms() error = %v", err)
	}
	if len(forms) != 2 || forms[0].CreatedAt != "2024-06-02T00:00:00Z" || forms[0].ID == "" {
		t.Fatalf("ListForms() = %+v", forms)
	}

	msg := &models.UserMessage{FullName: "Ravi", Contactno: "9876543210", Message: "Call me"}
	if err := repo.SaveUserMessage(ctx, "u1", msg); err != nil {
		t.Fatalf("SaveUserMessage() error = %v", err)
	}
	messages, _ := repo.ListUserMessages(ctx)
	if len(messages) != 1 || messages[0].Name != "Ravi" || messages[0].Phone != "9876543210" || messages[0].UserID != "u1" {
		t.Fatalf("ListUserMessages() = %+v", messages)
	}
}

func jsonUnmarshal(doc string, v interface{}) error {
	return json.Unmarshal([]byte(doc), v)
}
