package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
)

// AuditLog records an administrative or account change. Stored in MongoDB,
// never in the realtime tree.
type AuditLog struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ActorID    string                 `json:"actor_id" bson:"actor_id"`
	ActorRole  Role                   `json:"actor_role" bson:"actor_role"`
	Action     AuditAction            `json:"action" bson:"action"`
	Resource   string                 `json:"resource" bson:"resource"`
	ResourceID string                 `json:"resource_id" bson:"resource_id"`
	NewValues  map[string]interface{} `json:"new_values,omitempty" bson:"new_values,omitempty"`
	IPAddress  string                 `json:"ip_address" bson:"ip_address"`
	UserAgent  string                 `json:"user_agent" bson:"user_agent"`
	RequestID  string                 `json:"request_id" bson:"request_id"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
}

type AuditFilter struct {
	ActorID  string
	Resource string
	Limit    int64
}
