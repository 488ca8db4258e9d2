package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction classifies an audit log entry.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
	AuditActionDraw   AuditAction = "draw"
	AuditActionReset  AuditAction = "reset"
	AuditActionOptOut AuditAction = "opt_out"
)

// AuditLog records who did what to which object. Written for every
// privileged mutation so opt-outs, deletions and confirmed draws stay
// reviewable after the fact.
type AuditLog struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	OrgID     primitive.ObjectID     `bson:"orgId,omitempty" json:"orgId,omitempty"`
	UserID    primitive.ObjectID     `bson:"userId,omitempty" json:"userId,omitempty"`
	Username  string                 `bson:"username,omitempty" json:"username,omitempty"`
	Action    AuditAction            `bson:"action" json:"action"`
	Model     string                 `bson:"model" json:"model"`
	ObjectID  string                 `bson:"objectId,omitempty" json:"objectId,omitempty"`
	Changes   map[string]interface{} `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}
