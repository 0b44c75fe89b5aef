package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"
)

type ContactService interface {
	// SubmitContact stores the form. Signed-in users also get their
	// message/{uid} copy replaced.
	SubmitContact(ctx context.Context, userID, clientKey string, req *models.ContactRequest) (*models.ContactForm, error)
	ListContacts(ctx context.Context) ([]models.ContactForm, error)
}

type contactService struct {
	contactRepo interfaces.ContactRepository
	cache       CacheService
	logger      *logger.Logger
	limit       int64
	now         func() time.Time
}

func NewContactService(contactRepo interfaces.ContactRepository, cache CacheService, logger *logger.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		cache:       cache,
		logger:      logger,
		limit:       utils.ContactRateLimit,
		now:         time.Now,
	}
}

func (s *contactService) SubmitContact(ctx context.Context, userID, clientKey string, req *models.ContactRequest) (*models.ContactForm, error) {
	if errs := validators.ValidateContact(req); len(errs) > 0 {
		return nil, errs
	}
	if err := allow(ctx, s.cache, s.logger, "contact:"+clientKey, s.limit); err != nil {
		return nil, err
	}

	createdAt := utils.FormatTimeISO(s.now())
	form := &models.ContactForm{
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: createdAt,
	}
	if err := s.contactRepo.CreateForm(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to submit contact form: %w", err)
	}

	if userID != "" {
		err := s.contactRepo.SaveUserMessage(ctx, userID, &models.UserMessage{
			FullName:  req.Name,
			Contactno: req.Phone,
			Email:     req.Email,
			Message:   req.Message,
			CreatedAt: createdAt,
		})
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithUserID(userID).Warn("Failed to save user message copy")
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"contact_id": form.ID,
		"email":      utils.MaskEmail(form.Email),
	}).Info("Contact form submitted")
	return form, nil
}

// ListContacts merges forms with per-user messages, newest first, capped at
// the read limit. A user message that duplicates its form is shown once.
func (s *contactService) ListContacts(ctx context.Context) ([]models.ContactForm, error) {
	forms, err := s.contactRepo.ListForms(ctx, utils.ContactReadLimit)
	if err != nil {
		return nil, err
	}
	messages, err := s.contactRepo.ListUserMessages(ctx)
	if err != nil {
		return nil, err
	}

	type dedupKey struct{ userID, createdAt string }
	seen := make(map[dedupKey]bool, len(forms))
	for _, f := range forms {
		if f.UserID != "" {
			seen[dedupKey{f.UserID, f.CreatedAt}] = true
		}
	}

	merged := make([]models.ContactForm, 0, len(forms)+len(messages))
	merged = append(merged, forms...)
	for _, m := range messages {
		if !seen[dedupKey{m.UserID, m.CreatedAt}] {
			merged = append(merged, m)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return utils.SortKey(merged[i].CreatedAt) > utils.SortKey(merged[j].CreatedAt)
	})
	if len(merged) > utils.ContactReadLimit {
		merged = merged[:utils.ContactReadLimit]
	}
	return merged, nil
}
