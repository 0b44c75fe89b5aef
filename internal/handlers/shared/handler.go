package handlers

import (
	"errors"
	"net/http"

	"yelocar/internal/middleware"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/firebase"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dest and answers 400 when it cannot.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// respondError writes the response for a service error. resource names the
// entity in not-found messages.
func respondError(c *gin.Context, err error, resource string) {
	var verrs validators.ValidationErrors
	if errors.As(err, &verrs) {
		utils.ValidationErrorResponse(c, verrs.Map())
		return
	}
	if code := firebase.AuthCode(err); code != "" {
		respondAuthError(c, code)
		return
	}
	utils.DomainErrorResponse(c, err, resource)
}

func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		utils.UnauthorizedResponse(c)
		return "", false
	}
	return userID, true
}

var authErrorStatus = map[string]int{
	firebase.CodeEmailAlreadyInUse: http.StatusConflict,
	firebase.CodePhoneAlreadyInUse: http.StatusConflict,
	firebase.CodeInvalidEmail:      http.StatusBadRequest,
	firebase.CodeWeakPassword:      http.StatusBadRequest,
	firebase.CodeUserNotFound:      http.StatusUnauthorized,
	firebase.CodeWrongPassword:     http.StatusUnauthorized,
	firebase.CodeInvalidIDToken:    http.StatusUnauthorized,
	firebase.CodeIDTokenExpired:    http.StatusUnauthorized,
	firebase.CodeIDTokenRevoked:    http.StatusUnauthorized,
	firebase.CodeUserDisabled:      http.StatusForbidden,
	firebase.CodeTooManyRequests:   http.StatusTooManyRequests,
	firebase.CodeNetworkFailed:     http.StatusServiceUnavailable,
}
