package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoRepeatScope controls which confirmed winners are excluded from
// later draw pools. Per raffle event (the default) a participant may
// still win in a different raffle of the same event; per event they may
// win at most once anywhere in the event.
type NoRepeatScope string

const (
	NoRepeatScopeRaffleEvent NoRepeatScope = "raffle_event"
	NoRepeatScopeEvent       NoRepeatScope = "event"
)

// RaffleEvent groups the prizes of one raffle session within an event.
type RaffleEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrgID         primitive.ObjectID `bson:"orgId" json:"orgId"`
	EventID       primitive.ObjectID `bson:"eventId" json:"eventId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	NoRepeatPrize bool               `bson:"noRepeatPrize" json:"noRepeatPrize"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Prize is static reference data for a draw: one prize with a number of
// winner slots.
type Prize struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleEventID primitive.ObjectID `bson:"raffleEventId" json:"raffleEventId"`
	RoundNumber   int                `bson:"roundNumber" json:"roundNumber"`
	Name          string             `bson:"name" json:"name"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DrawState is the per-draw workflow state. Only confirmed is
// persisted; everything before it can be discarded freely.
type DrawState string

const (
	DrawStateIdle       DrawState = "idle"
	DrawStateProposing  DrawState = "proposing"
	DrawStateProposed   DrawState = "proposed"
	DrawStateConfirming DrawState = "confirming"
	DrawStateConfirmed  DrawState = "confirmed"
)

// DrawProposal is an in-memory draw result awaiting confirmation.
// Nothing about it is written to storage until Confirm succeeds.
type DrawProposal struct {
	ID            string              `json:"id"`
	PrizeID       primitive.ObjectID  `json:"prizeId"`
	RaffleEventID primitive.ObjectID  `json:"raffleEventId"`
	EventID       primitive.ObjectID  `json:"eventId"`
	Winners       []*Participant      `json:"winners"`
	Seed          string              `json:"seed"`
	State         DrawState           `json:"state"`
	EligibleCount int                 `json:"eligibleCount"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Winner is a confirmed, persisted draw result. Immutable once written;
// the workflow offers no edit or amendment of a saved winner set.
type Winner struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PrizeID       primitive.ObjectID `bson:"prizeId" json:"prizeId"`
	RaffleEventID primitive.ObjectID `bson:"raffleEventId" json:"raffleEventId"`
	EventID       primitive.ObjectID `bson:"eventId" json:"eventId"`
	ParticipantID primitive.ObjectID `bson:"participantId" json:"participantId"`
	Name          string             `bson:"name" json:"name"`
	Department    string             `bson:"department,omitempty" json:"department,omitempty"`
	Seed          string             `bson:"seed" json:"seed"`
	DrawnAt       time.Time          `bson:"drawnAt" json:"drawnAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateRaffleEventRequest defines the payload for creating a raffle.
type CreateRaffleEventRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	NoRepeatPrize bool   `json:"noRepeatPrize"`
}

// CreatePrizeRequest defines the payload for adding a prize.
type CreatePrizeRequest struct {
	RoundNumber int    `json:"roundNumber" binding:"required,min=1"`
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// SpinRequest triggers a draw proposal. Quantity defaults to the
// prize's slot count when zero.
type SpinRequest struct {
	Quantity int `json:"quantity" binding:"omitempty,min=1"`
}

// SaveWinnersRequest is the explicit second step of the spin/save
// protocol. The proposal id must match the one returned by spin.
type SaveWinnersRequest struct {
	ProposalID string `json:"proposalId" binding:"required"`
}

// DeleteRequest carries the audited reason for a destructive action.
type DeleteRequest struct {
	Reason string `json:"reason" binding:"required"`
}
