package validators

import (
	"errors"
	"strings"

	"yelocar/internal/models"
)

var ErrDiscountExceedsPrice = errors.New("discount cannot exceed the price")

func ValidateVehicleCreate(req *models.CreateVehicleRequest) ValidationErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Features = cleanFeatures(req.Features)

	errs := ValidateStruct(req)
	if req.Discount > req.Price && req.Price > 0 {
		errs.add("discount", "lte", ErrDiscountExceedsPrice)
	}
	return errs
}

func ValidateVehicleUpdate(req *models.UpdateVehicleRequest, current *models.Vehicle) ValidationErrors {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Features != nil {
		features := cleanFeatures(*req.Features)
		req.Features = &features
	}

	errs := ValidateStruct(req)

	price, discount := current.Price, current.Discount
	if req.Price != nil {
		price = *req.Price
	}
	if req.Discount != nil {
		discount = *req.Discount
	}
	if discount > price {
		errs.add("discount", "lte", ErrDiscountExceedsPrice)
	}
	return errs
}

func cleanFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
