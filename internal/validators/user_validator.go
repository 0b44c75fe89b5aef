package validators

import (
	"strings"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

func ValidateSignUp(req *models.SignUpRequest) ValidationErrors {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)
	req.PhoneNumber = utils.StripSpaces(req.PhoneNumber)

	return ValidateStruct(req)
}

func ValidateProfileUpdate(req *models.UpdateProfileRequest) ValidationErrors {
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		req.FullName = &name
	}
	if req.PhoneNumber != nil {
		phone := utils.StripSpaces(*req.PhoneNumber)
		req.PhoneNumber = &phone
	}

	return ValidateStruct(req)
}

func ValidateRoleUpdate(req *models.UpdateRoleRequest) ValidationErrors {
	return ValidateStruct(req)
}
