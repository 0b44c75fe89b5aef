package handlers

import (
	"strconv"

	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultAuditLimit = 100

type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLogs filters by actor_id and resource; limit caps the result.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)), 10, 64)
	if err != nil || limit <= 0 || limit > 500 {
		utils.BadRequestResponse(c, "limit must be between 1 and 500")
		return
	}

	entries, err := h.auditService.List(c.Request.Context(), models.AuditFilter{
		ActorID:  c.Query("actor_id"),
		Resource: c.Query("resource"),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err, "Audit log")
		return
	}
	utils.SuccessResponseWithMeta(c, "Audit log retrieved successfully", entries, &utils.Meta{Count: len(entries)})
}
