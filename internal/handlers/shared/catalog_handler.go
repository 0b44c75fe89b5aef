package handlers

import (
	"net/http"

	"yelocar/internal/middleware"
	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file for the form framing.
const multipartOverhead = 64 * 1024

type CatalogHandler struct {
	catalogService services.CatalogService
	maxUploadSize  int64
}

func NewCatalogHandler(catalogService services.CatalogService, maxUploadSize int64) *CatalogHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = utils.MaxImageSize
	}
	return &CatalogHandler{
		catalogService: catalogService,
		maxUploadSize:  maxUploadSize,
	}
}

// ListVehicles serves the public catalog: active vehicles only.
func (h *CatalogHandler) ListVehicles(c *gin.Context) {
	h.list(c, false)
}

// ListAllVehicles is the inventory view, inactive vehicles included.
func (h *CatalogHandler) ListAllVehicles(c *gin.Context) {
	h.list(c, true)
}

func (h *CatalogHandler) list(c *gin.Context, includeInactive bool) {
	vehicles, err := h.catalogService.ListVehicles(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err, "Vehicles")
		return
	}
	utils.SuccessResponseWithMeta(c, "Vehicles retrieved successfully", vehicles, &utils.Meta{Count: len(vehicles)})
}

func (h *CatalogHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.catalogService.GetVehicle(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

func (h *CatalogHandler) CreateVehicle(c *gin.Context) {
	var request models.CreateVehicleRequest
	if !bindJSON(c, &request) {
		return
	}

	vehicle, err := h.catalogService.CreateVehicle(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

func (h *CatalogHandler) UpdateVehicle(c *gin.Context) {
	var request models.UpdateVehicleRequest
	if !bindJSON(c, &request) {
		return
	}

	vehicle, err := h.catalogService.UpdateVehicle(c.Request.Context(), middleware.UserID(c), c.Param("id"), &request)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

func (h *CatalogHandler) DeleteVehicle(c *gin.Context) {
	if err := h.catalogService.DeleteVehicle(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}

func (h *CatalogHandler) ToggleVehicleStatus(c *gin.Context) {
	vehicle, err := h.catalogService.ToggleVehicleStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Vehicle status updated successfully", vehicle)
}

// UploadVehicleImage takes a multipart "image" field.
func (h *CatalogHandler) UploadVehicleImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "An image file is required (max 5MB)")
		return
	}
	if header.Size > h.maxUploadSize {
		utils.BadRequestResponse(c, "Image exceeds the maximum upload size")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Could not read the uploaded image")
		return
	}
	defer file.Close()

	vehicle, err := h.catalogService.UploadVehicleImage(c.Request.Context(), middleware.UserID(c), c.Param("id"), header.Filename, file)
	if err != nil {
		respondError(c, err, "Vehicle")
		return
	}
	utils.SuccessResponse(c, "Image uploaded successfully", vehicle)
}
