package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type ShowroomRepository interface {
	Create(ctx context.Context, showroom *models.Showroom) error
	GetByID(ctx context.Context, id string) (*models.Showroom, error)
	List(ctx context.Context) ([]models.Showroom, error)
	Replace(ctx context.Context, showroom *models.Showroom) error
	SetStatus(ctx context.Context, id string, status models.ShowroomStatus) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
