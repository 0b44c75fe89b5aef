package validators

import (
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

func ValidateShowroom(req *models.ShowroomRequest) ValidationErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.Phone = utils.StripSpaces(req.Phone)
	req.Email = normalizeEmail(req.Email)

	return ValidateStruct(req)
}

func ValidateContact(req *models.ContactRequest) ValidationErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = utils.StripSpaces(req.Phone)
	req.Message = strings.TrimSpace(req.Message)

	return ValidateStruct(req)
}
