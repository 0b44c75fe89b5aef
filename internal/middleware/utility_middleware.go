package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"yelocar/internal/services"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// CORSMiddleware allows the given origins, or any origin for "*".
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader, "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	wildcard := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		// Credentials cannot be combined with a literal "*" origin.
		config.AllowOriginFunc = func(string) bool { return true }
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return cors.New(config)
}

// RequestIDMiddleware adds a request ID to each request and to its context
// logger fields.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// LoggingMiddleware logs every request once it has been served.
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		log.WithContext(c.Request.Context()).LogAPIRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start), UserID(c))
	}
}

// RecoveryMiddleware turns a panic into a 500 and logs the stack.
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithContext(c.Request.Context()).WithFields(map[string]interface{}{
					"panic": fmt.Sprint(r),
					"stack": string(debug.Stack()),
					"path":  c.Request.URL.Path,
				}).Error("Recovered from panic")
				abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", utils.ErrInternalServer, nil)
			}
		}()
		c.Next()
	}
}

// RateLimitMiddleware caps requests per client per minute. The limiter fails
// open when the cache is unreachable.
func RateLimitMiddleware(cache services.CacheService, limit int, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		result, err := cache.CheckRateLimit(c.Request.Context(), "api:"+ClientKey(c), int64(limit), utils.RateLimitWindow)
		if err != nil {
			log.WithContext(c.Request.Context()).WithError(err).Warn("Rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		if !result.Allowed {
			log.LogSecurityEvent(utils.EventRateLimited, "low", map[string]interface{}{
				"client": ClientKey(c),
				"path":   c.FullPath(),
			})
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", utils.ErrTooManyRequests, nil)
			return
		}
		c.Next()
	}
}

// ClientKey identifies the caller for rate limiting: the user when signed
// in, the client IP otherwise.
func ClientKey(c *gin.Context) string {
	if id := UserID(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

func abort(c *gin.Context, status int, code, message string, data interface{}) {
	c.AbortWithStatusJSON(status, utils.APIResponse{
		Status:    utils.StatusError,
		Data:      data,
		Error:     &utils.APIError{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}
