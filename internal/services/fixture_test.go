package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/rtdb"
	"yelocar/pkg/cache"
	"yelocar/pkg/firebase"
	"yelocar/pkg/logger"
	"yelocar/pkg/maps"
	"yelocar/pkg/push"
	"yelocar/pkg/sms"
	"yelocar/pkg/storage"
)

type fakeIdentity struct {
	mu      sync.Mutex
	users   map[string]string // email -> uid
	tokens  map[string]*firebase.Identity
	deleted []string
	next    int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{users: map[string]string{}, tokens: map[string]*firebase.Identity{}}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return "", &firebase.AuthError{Code: firebase.CodeEmailAlreadyInUse}
	}
	f.next++
	uid := fmt.Sprintf("uid-%d", f.next)
	f.users[email] = uid
	return uid, nil
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[idToken]
	if !ok {
		return nil, &firebase.AuthError{Code: firebase.CodeInvalidIDToken}
	}
	return id, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, uid)
	for email, u := range f.users {
		if u == uid {
			delete(f.users, email)
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
}

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type fakeSMS struct {
	sent []*sms.SMSRequest
	err  error
}

func (f *fakeSMS) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	f.sent = append(f.sent, request)
	if f.err != nil {
		return nil, f.err
	}
	return &sms.SMSResponse{MessageID: "SM1", Status: "queued"}, nil
}

type fakePush struct {
	push.NoopProvider
	sent []*push.NotificationRequest
	err  error
}

func (f *fakePush) SendNotification(ctx context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	f.sent = append(f.sent, request)
	if f.err != nil {
		return nil, f.err
	}
	return &push.NotificationResponse{MessageID: "m1", Success: true}, nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	data, err := io.ReadAll(request.Reader)
	if err != nil {
		return nil, err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[request.Key] = data
	return &storage.UploadResponse{Key: request.Key, URL: "https://cdn.test/" + request.Key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

type fakeGeocoder struct {
	result *maps.GeocodeResponse
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (*maps.GeocodeResponse, error) {
	f.calls++
	return f.result, f.err
}

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string, dest interface{}) error { return errStoreDown }
func (failingStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return errStoreDown
}
func (failingStore) Delete(ctx context.Context, keys ...string) error { return errStoreDown }
func (failingStore) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, errStoreDown
}
func (failingStore) Ping(ctx context.Context) error { return errStoreDown }
func (failingStore) Close() error                   { return nil }

// fixture wires every service over an in-memory tree and cache.
type fixture struct {
	tree      *rtdb.MemoryTree
	store     *cache.MemoryCache
	cache     CacheService
	publisher *recordingPublisher
	sms       *fakeSMS
	push      *fakePush
	identity  *fakeIdentity
	storage   *fakeStorage
	geocoder  *fakeGeocoder

	users         UserService
	auth          AuthService
	catalog       CatalogService
	bookings      BookingService
	interactions  InteractionService
	analytics     AnalyticsService
	staff         StaffService
	showrooms     ShowroomService
	contacts      ContactService
	notifications NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Discard()

	f := &fixture{
		tree:      rtdb.NewMemoryTree(),
		store:     cache.NewMemoryCache(),
		publisher: &recordingPublisher{},
		sms:       &fakeSMS{},
		push:      &fakePush{},
		identity:  newFakeIdentity(),
		storage:   &fakeStorage{},
		geocoder:  &fakeGeocoder{result: &maps.GeocodeResponse{}},
	}
	f.cache = NewCacheService(f.store, log, "test", time.Minute)

	userRepo := rtdb.NewUserRepository(f.tree)
	vehicleRepo := rtdb.NewVehicleRepository(f.tree)
	bookingRepo := rtdb.NewBookingRepository(f.tree)
	interactionRepo := rtdb.NewInteractionRepository(f.tree)
	staffRepo := rtdb.NewStaffRepository(f.tree)
	showroomRepo := rtdb.NewShowroomRepository(f.tree)
	contactRepo := rtdb.NewContactRepository(f.tree)
	audit := NewAuditService(nil, log)

	f.users = NewUserService(userRepo, f.cache, audit, log)
	f.auth = NewAuthService(f.identity, f.users, bookingRepo, contactRepo, audit, "test-secret", time.Hour, log)
	f.catalog = NewCatalogService(vehicleRepo, f.storage, f.cache, audit, f.publisher, log)
	f.notifications = NewNotificationService(f.sms, f.push, "+91", "admin-bookings", log)
	f.bookings = NewBookingService(bookingRepo, f.catalog, f.notifications, audit, f.publisher, log)
	f.interactions = NewInteractionService(interactionRepo, f.cache, f.publisher, log)
	f.analytics = NewAnalyticsService(f.catalog, f.bookings, interactionRepo, Counters{
		Users:     userRepo,
		Staff:     staffRepo,
		Showrooms: showroomRepo,
		Contacts:  contactRepo,
	}, time.UTC, log)
	f.staff = NewStaffService(staffRepo, audit, log)
	f.showrooms = NewShowroomService(showroomRepo, f.geocoder, audit, log)
	f.contacts = NewContactService(contactRepo, f.cache, log)
	return f
}

func (f *fixture) seed(t *testing.T, path, doc string) {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("bad fixture %s: %v", path, err)
	}
	if err := f.tree.Set(context.Background(), path, v); err != nil {
		t.Fatalf("seed %s: %v", path, err)
	}
}

func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()
	f.seed(t, "cars", `{
		"honda-city": {"id": "honda-city", "name": "Honda City", "year": 2023, "price": 1200000, "discount": 50000,
		               "imageSrc": "/cars/city.png", "category": "Sedan", "status": "active",
		               "mainFeatures": [{"name": "Sunroof"}, {"name": "ABS"}]},
		"kia-seltos": {"id": "kia-seltos", "name": "Kia Seltos", "year": 2024, "price": 1500000,
		               "imageSrc": "/cars/seltos.png", "category": "SUV", "status": "inactive"}
	}`)
}

func validBooking(carID string) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		CarID:             carID,
		FullName:          "Asha Rao",
		PhoneNumber:       "98765 43210",
		EmailAddress:      "asha@example.com",
		PreferredVariant:  "Blue",
		BookingDate:       "2024-07-01",
		City:              "Pune",
		PaymentPreference: "Cash",
		AgreedToTerms:     true,
	}
}
