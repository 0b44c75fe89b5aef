package services

import (
	"context"
	"fmt"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
)

type InteractionService interface {
	// RecordInteraction appends an event. userID is empty for guests;
	// clientKey identifies the caller for rate limiting.
	RecordInteraction(ctx context.Context, userID, clientKey string, req *models.RecordInteractionRequest) (*models.InteractionEvent, error)
	// ListInteractions returns the most recent events, newest first,
	// optionally for one vehicle only.
	ListInteractions(ctx context.Context, featureID string) ([]models.InteractionEvent, error)
}

type interactionService struct {
	interactionRepo interfaces.InteractionRepository
	cache           CacheService
	publisher       SnapshotPublisher
	logger          *logger.Logger
	limit           int64
	now             func() time.Time
}

func NewInteractionService(interactionRepo interfaces.InteractionRepository, cache CacheService, publisher SnapshotPublisher, logger *logger.Logger) InteractionService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &interactionService{
		interactionRepo: interactionRepo,
		cache:           cache,
		publisher:       publisher,
		logger:          logger,
		limit:           utils.InteractionRateLimit,
		now:             time.Now,
	}
}

func (s *interactionService) RecordInteraction(ctx context.Context, userID, clientKey string, req *models.RecordInteractionRequest) (*models.InteractionEvent, error) {
	if errs := validators.ValidateInteraction(req); len(errs) > 0 {
		return nil, errs
	}
	if err := allow(ctx, s.cache, s.logger, "interaction:"+clientKey, s.limit); err != nil {
		return nil, err
	}

	event := &models.InteractionEvent{
		UserID:    userID,
		FeatureID: req.FeatureID,
		Action:    models.InteractionAction(req.Action),
		Timestamp: utils.FormatTimeISO(s.now()),
	}
	if err := s.interactionRepo.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	s.publisher.Publish(ctx, utils.TopicInteractions)
	return event, nil
}

func (s *interactionService) ListInteractions(ctx context.Context, featureID string) ([]models.InteractionEvent, error) {
	events, err := s.interactionRepo.ListRecent(ctx, utils.InteractionReadLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	if featureID == "" {
		return events, nil
	}

	filtered := make([]models.InteractionEvent, 0, len(events))
	for _, e := range events {
		if e.FeatureID == featureID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// allow counts one write against key. A cache outage lets the write through.
func allow(ctx context.Context, cache CacheService, log *logger.Logger, key string, limit int64) error {
	result, err := cache.CheckRateLimit(ctx, key, limit, utils.RateLimitWindow)
	if err != nil {
		log.WithContext(ctx).WithError(err).Warn("Rate limit check failed")
		return nil
	}
	if !result.Allowed {
		log.LogSecurityEvent("rate_limited", "low", map[string]interface{}{
			"key":   key,
			"count": result.Count,
		})
		return fmt.Errorf("%s: %w", key, models.ErrRateLimited)
	}
	return nil
}
