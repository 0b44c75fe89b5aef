package utils

import "time"

const (
	AppName = "YeloCar"

	// Authentication
	SessionTokenTTL = 24 * time.Hour

	// Realtime reads
	InteractionReadLimit = 100
	ContactReadLimit     = 50
	TopVehiclesLimit     = 5

	// File Upload
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MaxImageWidth  = 1200
	MaxImageHeight = 800

	// Rate Limiting
	InteractionRateLimit = 60
	ContactRateLimit     = 5
	RateLimitWindow      = time.Minute

	// Cache
	CatalogCacheTTL = 2 * time.Minute
	ProfileCacheTTL = 5 * time.Minute
)

// Landing paths returned to the client by the access check.
const (
	PathSignIn         = "/auth/signin"
	PathAdminDashboard = "/admin-dashboard"
	PathHome           = "/home"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidToken     = "invalid token"
	ErrTokenExpired     = "token expired"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
	ErrTooManyRequests  = "too many requests, please slow down"
	ErrOffline          = "We couldn't reach the database. Please check your connection and try again."
)

// Cache Keys
const (
	CacheCatalogKey      = "catalog:all"
	CacheProfilePrefix   = "profile:"
	CacheRateLimitPrefix = "rate_limit:"
)

// Event Types
const (
	EventUserRegistered   = "user_registered"
	EventSessionCreated   = "session_created"
	EventAccountDeleted   = "account_deleted"
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventRoleChanged      = "role_changed"
	EventRateLimited      = "rate_limited"
)

// Live snapshot topics
const (
	TopicBookings     = "bookings"
	TopicInteractions = "interactions"
)

var AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif"}
