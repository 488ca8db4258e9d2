package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/auth"
)

// User represents a console account. Role and organization are fixed at
// login time; a role change requires re-authentication.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role      auth.Role          `bson:"role" json:"role"`
	OrgID     primitive.ObjectID `bson:"orgId,omitempty" json:"orgId,omitempty"`
	IsJudge   bool               `bson:"isJudge" json:"isJudge"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the session identity.
type LoginResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}
