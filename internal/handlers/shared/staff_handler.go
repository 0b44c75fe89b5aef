package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService services.StaffService
}

func NewStaffHandler(staffService services.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

func (h *StaffHandler) ListStaff(c *gin.Context) {
	members, err := h.staffService.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, err, "Staff")
		return
	}
	utils.SuccessResponseWithMeta(c, "Staff retrieved successfully", members, &utils.Meta{Count: len(members)})
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	member, err := h.staffService.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.SuccessResponse(c, "Staff member retrieved successfully", member)
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var request models.StaffRequest
	if !bindJSON(c, &request) {
		return
	}

	member, err := h.staffService.CreateStaff(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.CreatedResponse(c, "Staff member created successfully", member)
}

func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	var request models.StaffRequest
	if !bindJSON(c, &request) {
		return
	}

	member, err := h.staffService.UpdateStaff(c.Request.Context(), middleware.UserID(c), c.Param("id"), &request)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.SuccessResponse(c, "Staff member updated successfully", member)
}

func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	if err := h.staffService.DeleteStaff(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.SuccessResponse(c, "Staff member deleted successfully", nil)
}

// Roles lists the job titles offered by the staff form.
func (h *StaffHandler) Roles(c *gin.Context) {
	utils.SuccessResponse(c, "Roles retrieved successfully", models.StaffRoles)
}
