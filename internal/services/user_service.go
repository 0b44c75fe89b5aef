package services

import (
	"context"
	"fmt"
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error

	// Admin
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	UpdateUserRole(ctx context.Context, actorID, userID string, req *models.UpdateRoleRequest) (*models.UserProfile, error)
	CountUsers(ctx context.Context) (int, error)
}

type userService struct {
	userRepo interfaces.UserRepository
	cache    CacheService
	audit    AuditService
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, cache CacheService, audit AuditService, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		cache:    cache,
		audit:    audit,
		logger:   logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var cached models.UserProfile
	if s.cache.Get(ctx, profileCacheKey(userID), &cached) {
		return &cached, nil
	}

	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	s.cache.Set(ctx, profileCacheKey(userID), profile, utils.ProfileCacheTTL)
	return profile, nil
}

// CreateProfile writes the profile of a new account. A missing role becomes
// buyer.
func (s *userService) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	if !profile.Role.Valid() {
		profile.Role = models.RoleBuyer
	}
	if profile.CreatedAt == "" {
		profile.CreatedAt = models.NowISO()
	}

	if err := s.userRepo.Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.cache.Delete(ctx, profileCacheKey(profile.UID))
	return nil
}

// UpdateProfile changes the editable fields only. Role and createdAt are
// never touched here.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	if errs := validators.ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["fullName"] = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		fields["phoneNumber"] = utils.StripSpaces(*req.PhoneNumber)
	}
	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}
	fields["updatedAt"] = models.NowISO()

	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.cache.Delete(ctx, profileCacheKey(userID))

	s.logger.LogUserAction(userID, "profile_updated", map[string]interface{}{
		"fields": len(fields) - 1,
	})

	return s.GetProfile(ctx, userID)
}

func (s *userService) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.cache.Delete(ctx, profileCacheKey(userID))
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserRole is the only write path for a role after sign-up.
func (s *userService) UpdateUserRole(ctx context.Context, actorID, userID string, req *models.UpdateRoleRequest) (*models.UserProfile, error) {
	if errs := validators.ValidateRoleUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"role":      string(req.Role),
		"updatedAt": models.NowISO(),
	}); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	s.cache.Delete(ctx, profileCacheKey(userID))

	s.logger.LogSecurityEvent(utils.EventRoleChanged, "medium", map[string]interface{}{
		"actor_id": actorID,
		"user_id":  userID,
		"role":     req.Role,
	})
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    actorID,
		ActorRole:  models.RoleAdmin,
		Action:     models.AuditActionUpdate,
		Resource:   "user_role",
		ResourceID: userID,
		NewValues:  map[string]interface{}{"role": string(req.Role)},
	})

	return s.GetProfile(ctx, userID)
}

func (s *userService) CountUsers(ctx context.Context) (int, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func profileCacheKey(userID string) string {
	return utils.CacheProfilePrefix + userID
}
