package mongodb

import (
	"context"
	"fmt"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auditLogCollection = "audit_logs"
	defaultAuditLimit  = 50
	maxAuditLimit      = 500
)

type auditLogRepository struct {
	collection *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) interfaces.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection(auditLogCollection),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.ID = primitive.NewObjectID()
	if auditLog.CreatedAt.IsZero() {
		auditLog.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, auditLog)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// List returns matching entries newest first.
func (r *auditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	query := bson.M{}
	if filter.ActorID != "" {
		query["actor_id"] = filter.ActorID
	}
	if filter.Resource != "" {
		query["resource"] = filter.Resource
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]*models.AuditLog, 0)
	for cursor.Next(ctx) {
		var log models.AuditLog
		if err := cursor.Decode(&log); err != nil {
			return nil, fmt.Errorf("failed to decode audit log: %w", err)
		}
		logs = append(logs, &log)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
	}

	return logs, nil
}
