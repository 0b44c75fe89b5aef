package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionService services.InteractionService
}

func NewInteractionHandler(interactionService services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

// RecordInteraction accepts guests as well as signed-in users.
func (h *InteractionHandler) RecordInteraction(c *gin.Context) {
	var request models.RecordInteractionRequest
	if !bindJSON(c, &request) {
		return
	}

	event, err := h.interactionService.RecordInteraction(c.Request.Context(), middleware.UserID(c), middleware.ClientKey(c), &request)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.CreatedResponse(c, "Interaction recorded", event)
}

// ListInteractions takes an optional featureId query filter.
func (h *InteractionHandler) ListInteractions(c *gin.Context) {
	events, err := h.interactionService.ListInteractions(c.Request.Context(), c.Query("featureId"))
	if err != nil {
		respondError(c, err, "Interactions")
		return
	}
	utils.SuccessResponseWithMeta(c, "Interactions retrieved successfully", events, &utils.Meta{Count: len(events)})
}
