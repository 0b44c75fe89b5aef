package services

import (
	"context"
	"fmt"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"
)

type AnalyticsService interface {
	CarAnalytics(ctx context.Context) (*models.CarAnalytics, error)
	BookingAnalytics(ctx context.Context) (*models.BookingAnalytics, error)
	Overview(ctx context.Context) (*models.Overview, error)
	// Snapshot builds the live payload of a topic.
	Snapshot(ctx context.Context, topic string) (interface{}, error)
}

// Counters are the repositories the overview counts.
type Counters struct {
	Users     interfaces.UserRepository
	Staff     interfaces.StaffRepository
	Showrooms interfaces.ShowroomRepository
	Contacts  interfaces.ContactRepository
}

type analyticsService struct {
	catalog         CatalogService
	bookings        BookingService
	interactionRepo interfaces.InteractionRepository
	counters        Counters
	location        *time.Location
	logger          *logger.Logger
	now             func() time.Time
}

func NewAnalyticsService(
	catalog CatalogService,
	bookings BookingService,
	interactionRepo interfaces.InteractionRepository,
	counters Counters,
	location *time.Location,
	logger *logger.Logger,
) AnalyticsService {
	if location == nil {
		location = time.UTC
	}
	return &analyticsService{
		catalog:         catalog,
		bookings:        bookings,
		interactionRepo: interactionRepo,
		counters:        counters,
		location:        location,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *analyticsService) CarAnalytics(ctx context.Context) (*models.CarAnalytics, error) {
	catalog, err := s.catalog.ListVehicles(ctx, true)
	if err != nil {
		return nil, err
	}
	events, err := s.interactionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	stats := AggregateInteractions(events, catalog)
	result := &models.CarAnalytics{
		TotalVehicles: len(catalog),
		Vehicles:      stats,
		TopPerforming: RankVehicles(stats, utils.TopVehiclesLimit),
		Categories:    CategoryBreakdown(stats),
		PriceRanges:   PriceRanges(catalog),
	}
	for i := range catalog {
		if catalog[i].IsActive() {
			result.ActiveVehicles++
		}
	}
	for _, st := range stats {
		result.TotalInteractions += st.Total
	}
	return result, nil
}

func (s *analyticsService) BookingAnalytics(ctx context.Context) (*models.BookingAnalytics, error) {
	bookings, err := s.bookings.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	result := ComputeBookingAnalytics(bookings, s.now().In(s.location))
	return &result, nil
}

func (s *analyticsService) Overview(ctx context.Context) (*models.Overview, error) {
	var (
		overview models.Overview
		err      error
	)

	if overview.Vehicles, err = s.catalog.CountVehicles(ctx); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	overview.Bookings = len(bookings)

	counts := []struct {
		name  string
		dest  *int
		count func(context.Context) (int, error)
	}{
		{"users", &overview.Users, s.counters.Users.Count},
		{"staff", &overview.Staff, s.counters.Staff.Count},
		{"showrooms", &overview.Showrooms, s.counters.Showrooms.Count},
		{"contacts", &overview.Contacts, s.counters.Contacts.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dest = n
	}

	return &overview, nil
}

func (s *analyticsService) Snapshot(ctx context.Context, topic string) (interface{}, error) {
	switch topic {
	case utils.TopicBookings:
		bookings, err := s.bookings.ListAllBookings(ctx)
		if err != nil {
			return nil, err
		}
		return &models.LiveBookings{
			Bookings:  bookings,
			Analytics: ComputeBookingAnalytics(bookings, s.now().In(s.location)),
		}, nil

	case utils.TopicInteractions:
		analytics, err := s.CarAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := s.interactionRepo.ListRecent(ctx, utils.InteractionReadLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load interactions: %w", err)
		}
		return &models.LiveInteractions{
			Recent:    recent,
			Analytics: *analytics,
		}, nil
	}

	return nil, fmt.Errorf("unknown topic %q: %w", topic, models.ErrNotFound)
}
