package validators

import (
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

func ValidateStaff(req *models.StaffRequest) ValidationErrors {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.EmailAddress = normalizeEmail(req.EmailAddress)
	req.ContactNumber = utils.StripSpaces(req.ContactNumber)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	return ValidateStruct(req)
}
