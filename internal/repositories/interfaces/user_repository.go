package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	List(ctx context.Context) ([]models.UserProfile, error)
	Update(ctx context.Context, uid string, fields map[string]interface{}) error
	Delete(ctx context.Context, uid string) error
	Count(ctx context.Context) (int, error)
}
