package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type InteractionRepository interface {
	Append(ctx context.Context, event *models.InteractionEvent) error
	// ListRecent returns the newest limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.InteractionEvent, error)
	ListAll(ctx context.Context) ([]models.InteractionEvent, error)
}
