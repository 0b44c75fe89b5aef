package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type ShowroomHandler struct {
	showroomService services.ShowroomService
}

func NewShowroomHandler(showroomService services.ShowroomService) *ShowroomHandler {
	return &ShowroomHandler{
		showroomService: showroomService,
	}
}

// ListShowrooms is public and hides inactive showrooms.
func (h *ShowroomHandler) ListShowrooms(c *gin.Context) {
	h.list(c, false)
}

func (h *ShowroomHandler) ListAllShowrooms(c *gin.Context) {
	h.list(c, true)
}

func (h *ShowroomHandler) list(c *gin.Context, includeInactive bool) {
	showrooms, err := h.showroomService.ListShowrooms(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err, "Showrooms")
		return
	}
	utils.SuccessResponseWithMeta(c, "Showrooms retrieved successfully", showrooms, &utils.Meta{Count: len(showrooms)})
}

func (h *ShowroomHandler) GetShowroom(c *gin.Context) {
	showroom, err := h.showroomService.GetShowroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Showroom")
		return
	}
	utils.SuccessResponse(c, "Showroom retrieved successfully", showroom)
}

func (h *ShowroomHandler) CreateShowroom(c *gin.Context) {
	var request models.ShowroomRequest
	if !bindJSON(c, &request) {
		return
	}

	showroom, err := h.showroomService.CreateShowroom(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, err, "Showroom")
		return
	}
	utils.CreatedResponse(c, "Showroom created successfully", showroom)
}

func (h *ShowroomHandler) UpdateShowroom(c *gin.Context) {
	var request models.ShowroomRequest
	if !bindJSON(c, &request) {
		return
	}

	showroom, err := h.showroomService.UpdateShowroom(c.Request.Context(), middleware.UserID(c), c.Param("id"), &request)
	if err != nil {
		respondError(c, err, "Showroom")
		return
	}
	utils.SuccessResponse(c, "Showroom updated successfully", showroom)
}

func (h *ShowroomHandler) ToggleShowroomStatus(c *gin.Context) {
	showroom, err := h.showroomService.ToggleShowroomStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Showroom")
		return
	}
	utils.SuccessResponse(c, "Showroom status updated successfully", showroom)
}

func (h *ShowroomHandler) DeleteShowroom(c *gin.Context) {
	if err := h.showroomService.DeleteShowroom(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Showroom")
		return
	}
	utils.SuccessResponse(c, "Showroom deleted successfully", nil)
}
