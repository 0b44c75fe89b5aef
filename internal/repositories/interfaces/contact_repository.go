package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type ContactRepository interface {
	CreateForm(ctx context.Context, form *models.ContactForm) error
	SaveUserMessage(ctx context.Context, userID string, msg *models.UserMessage) error
	ListForms(ctx context.Context, limit int) ([]models.ContactForm, error)
	ListUserMessages(ctx context.Context) ([]models.ContactForm, error)
	DeleteUserMessage(ctx context.Context, userID string) error
	Count(ctx context.Context) (int, error)
}
