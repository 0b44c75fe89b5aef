package interfaces

import (
	"context"

	"yelocar/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}
