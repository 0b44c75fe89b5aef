package handlers

import (
	"net/http"

	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// SignUp creates the identity and a buyer profile.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var request models.SignUpRequest
	if !bindJSON(c, &request) {
		return
	}

	profile, err := h.authService.SignUp(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err, "Account")
		return
	}

	utils.CreatedResponse(c, "Account created successfully", profile)
}

// CreateSession exchanges a Firebase ID token for a session token and the
// page the user should land on.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var request models.SessionRequest
	if !bindJSON(c, &request) {
		return
	}

	session, err := h.authService.CreateSession(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err, "Account")
		return
	}

	utils.SuccessResponse(c, "Signed in successfully", session)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.UpdateProfileRequest
	if !bindJSON(c, &request) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", profile)
}

// DeleteAccount removes the caller's bookings, messages, profile and login.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Account")
		return
	}

	utils.SuccessResponse(c, "Account deleted successfully", nil)
}

func respondAuthError(c *gin.Context, code string) {
	status, ok := authErrorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	utils.ErrorResponse(c, status, code, services.AuthErrorMessage(code))
}
