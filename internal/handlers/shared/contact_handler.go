package handlers

import (
	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var request models.ContactRequest
	if !bindJSON(c, &request) {
		return
	}

	form, err := h.contactService.SubmitContact(c.Request.Context(), middleware.UserID(c), middleware.ClientKey(c), &request)
	if err != nil {
		respondError(c, err, "Contact")
		return
	}
	utils.CreatedResponse(c, "Thanks for reaching out. We'll get back to you soon.", form)
}

func (h *ContactHandler) ListContacts(c *gin.Context) {
	forms, err := h.contactService.ListContacts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Contacts")
		return
	}
	utils.SuccessResponseWithMeta(c, "Contacts retrieved successfully", forms, &utils.Meta{Count: len(forms)})
}
