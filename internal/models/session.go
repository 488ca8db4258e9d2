package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/auth"
)

// Session is the identity derived from a validated token plus the
// per-session event selection. At most one session exists per token;
// role and org scope never change for its lifetime.
type Session struct {
	UserID          primitive.ObjectID `json:"userId"`
	Username        string             `json:"username"`
	Role            auth.Role          `json:"role"`
	OrgID           primitive.ObjectID `json:"orgId,omitempty"`
	IsJudge         bool               `json:"isJudge"`
	Token           string             `json:"-"`
	ExpiresAt       time.Time          `json:"expiresAt"`
	SelectedEventID primitive.ObjectID `json:"selectedEventId,omitempty"`
}

// Expired reports whether the session's token lifetime has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// HasEventSelected reports whether an event is selected for this
// session. Event-scoped screens are unreachable until it returns true.
func (s *Session) HasEventSelected() bool {
	return !s.SelectedEventID.IsZero()
}
