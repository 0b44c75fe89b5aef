package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Users")
		return
	}

	utils.SuccessResponseWithMeta(c, "Users retrieved successfully", users, &utils.Meta{Count: len(users)})
}

func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var request models.UpdateRoleRequest
	if !bindJSON(c, &request) {
		return
	}

	profile, err := h.userService.UpdateUserRole(c.Request.Context(), middleware.UserID(c), c.Param("id"), &request)
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.SuccessResponse(c, "Role updated successfully", profile)
}
