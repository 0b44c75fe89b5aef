package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type contactRepository struct {
	tree Tree
}

func NewContactRepository(tree Tree) interfaces.ContactRepository {
	return &contactRepository{tree: tree}
}

func (r *contactRepository) CreateForm(ctx context.Context, form *models.ContactForm) error {
	stored := *form
	stored.ID = ""
	key, err := r.tree.Push(ctx, PathContactForms, &stored)
	if err != nil {
		return fmt.Errorf("failed to save contact form: %w", err)
	}
	form.ID = key
	return nil
}

// SaveUserMessage overwrites the user's previous message; one is kept per
// user.
func (r *contactRepository) SaveUserMessage(ctx context.Context, userID string, msg *models.UserMessage) error {
	if err := checkKey(userID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, join(PathMessages, userID), msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// ListForms returns the newest limit forms, newest first.
func (r *contactRepository) ListForms(ctx context.Context, limit int) ([]models.ContactForm, error) {
	nodes, err := r.tree.LastByChild(ctx, PathContactForms, "createdAt", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact forms: %w", err)
	}

	forms := make([]models.ContactForm, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		var form models.ContactForm
		if err := json.Unmarshal(nodes[i].Value, &form); err != nil {
			continue
		}
		form.ID = nodes[i].Key
		forms = append(forms, form)
	}
	return forms, nil
}

func (r *contactRepository) ListUserMessages(ctx context.Context) ([]models.ContactForm, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	forms := make([]models.ContactForm, 0, len(keys))
	for _, uid := range keys {
		var msg models.UserMessage
		if err := json.Unmarshal(nodes[uid], &msg); err != nil {
			continue
		}
		forms = append(forms, msg.Form(uid))
	}
	return forms, nil
}

func (r *contactRepository) DeleteUserMessage(ctx context.Context, userID string) error {
	if err := checkKey(userID); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, join(PathMessages, userID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Count returns the number of stored contact forms and per-user messages.
func (r *contactRepository) Count(ctx context.Context) (int, error) {
	_, forms, err := readChildren(ctx, r.tree, PathContactForms)
	if err != nil {
		return 0, fmt.Errorf("failed to count contact forms: %w", err)
	}
	_, messages, err := readChildren(ctx, r.tree, PathMessages)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return len(forms) + len(messages), nil
}
