package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/firebase"
	"yelocar/pkg/logger"
)

// IdentityProvider owns credentials. Passwords never reach the realtime tree.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
	DeleteUser(ctx context.Context, uid string) error
}

type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.UserProfile, error)
	CreateSession(ctx context.Context, req *models.SessionRequest) (*models.SessionResponse, error)
	ValidateSession(token string) (*utils.SessionClaims, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type authService struct {
	identity    IdentityProvider
	users       UserService
	bookingRepo interfaces.BookingRepository
	contactRepo interfaces.ContactRepository
	audit       AuditService
	jwtSecret   string
	sessionTTL  time.Duration
	logger      *logger.Logger
}

func NewAuthService(
	identity IdentityProvider,
	users UserService,
	bookingRepo interfaces.BookingRepository,
	contactRepo interfaces.ContactRepository,
	audit AuditService,
	jwtSecret string,
	sessionTTL time.Duration,
	logger *logger.Logger,
) AuthService {
	if identity == nil {
		identity = unavailableIdentity{}
	}
	if sessionTTL <= 0 {
		sessionTTL = utils.SessionTokenTTL
	}
	return &authService{
		identity:    identity,
		users:       users,
		bookingRepo: bookingRepo,
		contactRepo: contactRepo,
		audit:       audit,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// SignUp creates the identity and then the buyer profile. If the profile
// cannot be written the identity is removed again.
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.UserProfile, error) {
	if errs := validators.ValidateSignUp(req); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	uid, err := s.identity.CreateUser(ctx, email, req.Password, fullName)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("email", utils.MaskEmail(email)).Warn("Sign-up rejected by identity provider")
		return nil, err
	}

	profile := &models.UserProfile{
		UID:         uid,
		Email:       email,
		FullName:    fullName,
		PhoneNumber: utils.StripSpaces(req.PhoneNumber),
		Role:        models.RoleBuyer,
		CreatedAt:   models.NowISO(),
	}

	if err := s.users.CreateProfile(ctx, profile); err != nil {
		if rbErr := s.identity.DeleteUser(ctx, uid); rbErr != nil {
			s.logger.WithContext(ctx).WithError(rbErr).WithUserID(uid).Error("Failed to roll back identity after profile write failure")
		}
		return nil, err
	}

	s.logger.LogUserAction(uid, utils.EventUserRegistered, map[string]interface{}{
		"email": utils.MaskEmail(email),
	})
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    uid,
		ActorRole:  models.RoleBuyer,
		Action:     models.AuditActionCreate,
		Resource:   "user",
		ResourceID: uid,
	})

	return profile, nil
}

// CreateSession exchanges a provider ID token for a session token. A missing
// profile still signs the user in, without a role.
func (s *authService) CreateSession(ctx context.Context, req *models.SessionRequest) (*models.SessionResponse, error) {
	if strings.TrimSpace(req.IDToken) == "" {
		return nil, fmt.Errorf("idToken is required: %w", models.ErrValidation)
	}

	identity, err := s.identity.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		s.logger.LogSecurityEvent("id_token_rejected", "low", map[string]interface{}{
			"code": firebase.AuthCode(err),
		})
		return nil, err
	}

	var role *models.Role
	profile, err := s.users.GetProfile(ctx, identity.UID)
	switch {
	case err == nil:
		if profile.Role.Valid() {
			r := profile.Role
			role = &r
		}
	case errors.Is(err, models.ErrNotFound):
		profile = nil
	default:
		return nil, err
	}

	token, err := utils.GenerateSessionToken(identity.UID, identity.Email, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.LogUserAction(identity.UID, utils.EventSessionCreated, nil)
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    identity.UID,
		ActorRole:  roleOrEmpty(role),
		Action:     models.AuditActionLogin,
		Resource:   "session",
		ResourceID: identity.UID,
	})

	return &models.SessionResponse{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		Profile:   profile,
		Landing:   LandingPath(role),
	}, nil
}

func (s *authService) ValidateSession(token string) (*utils.SessionClaims, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), models.ErrUnauthorized)
	}
	return claims, nil
}

// DeleteAccount removes the user's data first and the identity last, so a
// partial failure can be retried by the same signed-in user.
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.bookingRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete bookings: %w", err)
	}
	if err := s.contactRepo.DeleteUserMessage(ctx, userID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	if err := s.users.DeleteProfile(ctx, userID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if err := s.identity.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.logger.LogUserAction(userID, utils.EventAccountDeleted, nil)
	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    userID,
		Action:     models.AuditActionDelete,
		Resource:   "user",
		ResourceID: userID,
	})
	return nil
}

var authMessages = map[string]string{
	firebase.CodeUserNotFound:      "No account found with this email address.",
	firebase.CodeWrongPassword:     "Incorrect password. Please try again.",
	firebase.CodeInvalidEmail:      "Please enter a valid email address.",
	firebase.CodeTooManyRequests:   "Too many failed attempts. Please try again later.",
	firebase.CodeNetworkFailed:     "Network error. Please check your internet connection.",
	firebase.CodeEmailAlreadyInUse: "An account with this email already exists.",
	firebase.CodeWeakPassword:      "Password is too weak. Please choose a stronger password.",
	firebase.CodeInvalidIDToken:    "Your session is invalid. Please sign in again.",
	firebase.CodeIDTokenExpired:    "Your session has expired. Please sign in again.",
	firebase.CodeIDTokenRevoked:    "Your session has expired. Please sign in again.",
	firebase.CodeUserDisabled:      "This account has been disabled.",
}

const defaultAuthMessage = "Something went wrong. Please try again."

// AuthErrorMessage turns a provider error code into text for the user.
func AuthErrorMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return defaultAuthMessage
}

func roleOrEmpty(role *models.Role) models.Role {
	if role == nil {
		return ""
	}
	return *role
}

// unavailableIdentity stands in when no identity provider is configured.
type unavailableIdentity struct{}

func (unavailableIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return "", fmt.Errorf("identity provider not configured: %w", models.ErrUnavailable)
}

func (unavailableIdentity) VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error) {
	return nil, fmt.Errorf("identity provider not configured: %w", models.ErrUnavailable)
}

func (unavailableIdentity) DeleteUser(ctx context.Context, uid string) error {
	return nil
}
