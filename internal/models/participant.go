package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant represents a person in an event's raffle pool.
// Eligibility is a one-way door in this workflow: opting out records a
// reason and there is no re-opt-in action.
type Participant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrgID          primitive.ObjectID `bson:"orgId" json:"orgId"`
	EventID        primitive.ObjectID `bson:"eventId" json:"eventId"`
	Name           string             `bson:"name" json:"name"`
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	RaffleEligible bool               `bson:"raffleEligible" json:"raffleEligible"`
	OptOutReason   string             `bson:"optOutReason,omitempty" json:"optOutReason,omitempty"`
	OptOutAt       time.Time          `bson:"optOutAt,omitempty" json:"optOutAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateParticipantRequest defines the payload for registering a single
// participant. New participants enter the draw pool eligible.
type CreateParticipantRequest struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
}

// ImportParticipantsRequest defines the payload for bulk registration.
type ImportParticipantsRequest struct {
	Participants []CreateParticipantRequest `json:"participants" binding:"required,min=1,dive"`
}

// OptOutRequest carries the audited reason for removing a participant
// from the draw pool.
type OptOutRequest struct {
	Reason string `json:"reason" binding:"required"`
}
