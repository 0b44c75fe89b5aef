package handlers

import (
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) CarAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.CarAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Analytics")
		return
	}
	utils.SuccessResponse(c, "Car analytics retrieved successfully", analytics)
}

func (h *AnalyticsHandler) BookingAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.BookingAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Analytics")
		return
	}
	utils.SuccessResponse(c, "Booking analytics retrieved successfully", analytics)
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "Analytics")
		return
	}
	utils.SuccessResponse(c, "Overview retrieved successfully", overview)
}
