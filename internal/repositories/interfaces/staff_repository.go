package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Replace(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
