package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transition.
func (s EventStatus) Terminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// CanTransitionTo encodes the status machine:
// draft -> active -> completed, and draft|active -> cancelled.
// Transitions are explicit admin actions; nothing is inferred from
// dates.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	switch s {
	case EventStatusDraft:
		return target == EventStatusActive || target == EventStatusCancelled
	case EventStatusActive:
		return target == EventStatusCompleted || target == EventStatusCancelled
	}
	return false
}

// Event represents an organization activity (sports day, party, ...)
// that raffles and participants are scoped under.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrgID       primitive.ObjectID `bson:"orgId" json:"orgId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      EventStatus        `bson:"status" json:"status"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateEventRequest defines the payload for creating an event.
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
}

// UpdateEventStatusRequest defines the payload for a status transition.
type UpdateEventStatusRequest struct {
	Status EventStatus `json:"status" binding:"required"`
}
