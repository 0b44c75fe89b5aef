package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	accessService services.AccessService
}

func NewAccessHandler(accessService services.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// ResolveAccess answers whether the caller may enter ?area=public|buyer|admin
// and where to go instead. It never fails: an unknown area is public.
func (h *AccessHandler) ResolveAccess(c *gin.Context) {
	area := services.Area(c.DefaultQuery("area", string(services.AreaPublic)))
	switch area {
	case services.AreaPublic, services.AreaBuyer, services.AreaAdmin:
	default:
		utils.BadRequestResponse(c, "area must be public, buyer or admin")
		return
	}

	decision := h.accessService.ResolveAccess(c.Request.Context(), middleware.UserID(c), area)
	utils.SuccessResponse(c, "Access resolved", decision)
}
