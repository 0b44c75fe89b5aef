package services

import (
	"context"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/pkg/logger"
)

type AuditService interface {
	// Record stores an entry. Failures are logged and never reach the caller.
	Record(ctx context.Context, entry *models.AuditLog)
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

type auditService struct {
	repo   interfaces.AuditLogRepository
	logger *logger.Logger
}

// NewAuditService returns a recorder backed by repo. A nil repo keeps the
// trail in the log only.
func NewAuditService(repo interfaces.AuditLogRepository, logger *logger.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger,
	}
}

func (s *auditService) Record(ctx context.Context, entry *models.AuditLog) {
	if entry.RequestID == "" {
		entry.RequestID = logger.RequestIDFromContext(ctx)
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"actor_id":    entry.ActorID,
		"action":      entry.Action,
		"resource":    entry.Resource,
		"resource_id": entry.ResourceID,
	})

	if s.repo == nil {
		log.Info("Audit event")
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.WithError(err).Warn("Failed to store audit event")
	}
}

func (s *auditService) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	if s.repo == nil {
		return []*models.AuditLog{}, nil
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return entries, nil
}
