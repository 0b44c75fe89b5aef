package services

import (
	"context"
	"errors"

	"yelocar/internal/models"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"
)

// Area is the part of the site a request is trying to reach.
type Area string

const (
	AreaPublic Area = "public"
	AreaBuyer  Area = "buyer"
	AreaAdmin  Area = "admin"
)

// AccessDecision carries the resolved role (nil when unknown) and where to
// send the user instead, nil when the request may proceed.
type AccessDecision struct {
	Role       *models.Role `json:"role"`
	RedirectTo *string      `json:"redirectTo"`
}

func (d AccessDecision) Allowed() bool {
	return d.RedirectTo == nil
}

func (d AccessDecision) IsAdmin() bool {
	return d.Role != nil && *d.Role == models.RoleAdmin
}

// ProfileReader is the profile lookup the access check depends on.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type AccessService interface {
	ResolveAccess(ctx context.Context, userID string, area Area) AccessDecision
}

type accessService struct {
	profiles ProfileReader
	logger   *logger.Logger
}

func NewAccessService(profiles ProfileReader, logger *logger.Logger) AccessService {
	return &accessService{
		profiles: profiles,
		logger:   logger,
	}
}

// ResolveAccess never writes. A failed profile lookup is treated as a
// signed-in user without a role.
func (s *accessService) ResolveAccess(ctx context.Context, userID string, area Area) AccessDecision {
	if userID == "" {
		if area == AreaPublic {
			return AccessDecision{}
		}
		return SignInRequired()
	}

	var role *models.Role
	profile, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil && profile != nil && profile.Role.Valid():
		r := profile.Role
		role = &r
	case err != nil && !errors.Is(err, models.ErrNotFound):
		s.logger.WithContext(ctx).WithError(err).WithUserID(userID).Warn("Profile lookup failed during access check")
	}

	return Decide(role, area)
}

// SignInRequired is the decision for a guest outside the public area.
func SignInRequired() AccessDecision {
	return AccessDecision{RedirectTo: pathPtr(utils.PathSignIn)}
}

// Decide applies the redirect policy for a signed-in user.
func Decide(role *models.Role, area Area) AccessDecision {
	decision := AccessDecision{Role: role}
	isAdmin := role != nil && *role == models.RoleAdmin

	switch area {
	case AreaBuyer:
		if isAdmin {
			decision.RedirectTo = pathPtr(utils.PathAdminDashboard)
		}
	case AreaAdmin:
		if !isAdmin {
			decision.RedirectTo = pathPtr(utils.PathHome)
		}
	}

	return decision
}

// LandingPath is where a freshly signed-in user is sent.
func LandingPath(role *models.Role) string {
	if role != nil && *role == models.RoleAdmin {
		return utils.PathAdminDashboard
	}
	return utils.PathHome
}

func pathPtr(p string) *string {
	return &p
}
