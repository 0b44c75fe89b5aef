package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yelocar/internal/utils"
	"yelocar/pkg/cache"
	"yelocar/pkg/logger"
)

type CacheService interface {
	// Get reports whether key was found and decoded into dest. Backend
	// failures are logged and read as a miss.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, keys ...string)
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
	Ping(ctx context.Context) error
}

type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Count     int64 `json:"count"`
	Remaining int64 `json:"remaining"`
}

type cacheService struct {
	store      cache.Store
	logger     *logger.Logger
	keyPrefix  string
	defaultTTL time.Duration
}

func NewCacheService(store cache.Store, logger *logger.Logger, keyPrefix string, defaultTTL time.Duration) CacheService {
	return &cacheService{
		store:      store,
		logger:     logger,
		keyPrefix:  keyPrefix,
		defaultTTL: defaultTTL,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	err := s.store.Get(ctx, s.buildKey(key), dest)
	switch {
	case err == nil:
		s.logger.WithField("cache_key", key).Debug("Cache hit")
		return true
	case errors.Is(err, cache.ErrMiss):
		return false
	default:
		s.logger.WithError(err).WithField("cache_key", key).Warn("Cache read failed")
		return false
	}
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = s.defaultTTL
	}
	if err := s.store.Set(ctx, s.buildKey(key), value, expiration); err != nil {
		s.logger.WithError(err).WithField("cache_key", key).Warn("Cache write failed")
	}
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) {
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = s.buildKey(key)
	}
	if err := s.store.Delete(ctx, fullKeys...); err != nil {
		s.logger.WithError(err).WithField("cache_keys", keys).Warn("Cache delete failed")
	}
}

// CheckRateLimit counts one hit against key in a fixed window.
func (s *cacheService) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	count, err := s.store.IncrWindow(ctx, s.buildKey(utils.CacheRateLimitPrefix+key), window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   count <= limit,
		Count:     count,
		Remaining: remaining,
	}, nil
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *cacheService) buildKey(key string) string {
	if s.keyPrefix != "" {
		return fmt.Sprintf("%s:%s", s.keyPrefix, key)
	}
	return key
}
