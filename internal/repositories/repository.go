package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/models"
)

// UserRepository defines the interface for console account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*models.Event, error)
	// UpdateStatus performs a compare-and-set from the expected current
	// status; it reports whether the document was actually transitioned
	// so concurrent transitions surface as conflicts instead of merges.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.EventStatus) (bool, error)
}

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Participant, error)
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error)
	FindEligibleByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error)
	// OptOut flips eligibility off exactly once; it reports false when
	// the participant was already ineligible.
	OptOut(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error)
}

// RaffleEventRepository defines the interface for raffle session data operations
type RaffleEventRepository interface {
	Create(ctx context.Context, raffleEvent *models.RaffleEvent) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleEvent, error)
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.RaffleEvent, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PrizeRepository defines the interface for prize data operations
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error)
	FindByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Prize, error)
	DeleteByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) error
}

// WinnerRepository defines the interface for confirmed winner data operations
type WinnerRepository interface {
	// CreateMany persists a winner set all-or-nothing. A duplicate
	// (prize, participant) pair aborts the whole set.
	CreateMany(ctx context.Context, winners []*models.Winner) error
	FindByPrize(ctx context.Context, prizeID primitive.ObjectID) ([]*models.Winner, error)
	FindByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Winner, error)
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Winner, error)
	WinnerParticipantIDs(ctx context.Context, scope models.NoRepeatScope, raffleEventID, eventID primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	DeleteByPrize(ctx context.Context, prizeID primitive.ObjectID) error
	DeleteByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) error
}

// AuditLogRepository defines the interface for audit log operations
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindByOrg(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]*models.AuditLog, error)
}
