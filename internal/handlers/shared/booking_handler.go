package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.CreateBookingRequest
	if !bindJSON(c, &request) {
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, &request)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.CreatedResponse(c, "Booking confirmed", booking)
}

// ListMyBookings returns the caller's bookings, latest booking date first.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Bookings")
		return
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, &utils.Meta{Count: len(bookings)})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Booking")
		return
	}
	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Booking")
		return
	}
	utils.SuccessResponse(c, "Booking cancelled successfully", nil)
}

// Variants lists the colour variants offered for a car on the booking form.
func (h *BookingHandler) Variants(c *gin.Context) {
	variants, err := h.bookingService.Variants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Variants retrieved successfully", variants)
}

func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Bookings")
		return
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, &utils.Meta{Count: len(bookings)})
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	err := h.bookingService.DeleteBooking(c.Request.Context(), middleware.UserID(c), c.Param("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Booking")
		return
	}
	utils.SuccessResponse(c, "Booking deleted successfully", nil)
}
