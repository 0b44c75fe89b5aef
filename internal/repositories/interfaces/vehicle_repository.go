package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context) ([]models.Vehicle, error)
	Replace(ctx context.Context, vehicle *models.Vehicle) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
