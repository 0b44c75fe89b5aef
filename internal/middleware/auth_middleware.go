package middleware

import (
	"net/http"
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by the auth middlewares.
const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRole   = "user_role"
)

// SessionValidator checks a session token issued by the auth service.
type SessionValidator interface {
	ValidateSession(token string) (*utils.SessionClaims, error)
}

// AuthRequired validates the session token and sets the user context. The
// token comes from the Authorization header, or from the token query
// parameter for websocket upgrades. Rejected requests carry the sign-in
// redirect.
func AuthRequired(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required", services.SignInRequired())
			return
		}

		claims, err := sessions.ValidateSession(token)
		if err != nil {
			message := "Invalid token"
			if utils.IsTokenExpired(err) {
				message = "Session expired"
			}
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message, services.SignInRequired())
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid token is present and lets
// guests through otherwise.
func OptionalAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := sessions.ValidateSession(token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

// AreaRequired runs the role-gated access check for an area. Guests get 401
// and signed-in users in the wrong area get 403, both with the redirect
// target. An allowed request carries the resolved role.
func AreaRequired(access services.AccessService, area services.Area) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.ResolveAccess(c.Request.Context(), UserID(c), area)
		if !decision.Allowed() {
			status := http.StatusForbidden
			if UserID(c) == "" {
				status = http.StatusUnauthorized
			}
			abort(c, status, "ACCESS_DENIED", "Access to this area is not allowed", decision)
			return
		}

		if decision.Role != nil {
			c.Set(ContextRole, *decision.Role)
		}
		c.Next()
	}
}

// UserID returns the signed-in user, or "" for guests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Role returns the role resolved by AreaRequired.
func Role(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return "", false
		}
		return token, true
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

func setUser(c *gin.Context, claims *utils.SessionClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), claims.UserID))
}
