package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/repositories"
	"github.com/nrsport/console-backend/internal/utils"
)

// ParticipantService defines the interface for participant operations
type ParticipantService interface {
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error)
	// Create registers one participant in the selected event's pool.
	Create(ctx context.Context, sess *models.Session, req *models.CreateParticipantRequest) (*models.Participant, error)
	// Import registers a batch of participants in one go, for roster
	// uploads from the console.
	Import(ctx context.Context, sess *models.Session, reqs []models.CreateParticipantRequest) ([]*models.Participant, error)
	// OptOut removes a participant from the draw pool with an audited
	// reason. Irreversible through this workflow: there is no
	// re-opt-in operation.
	OptOut(ctx context.Context, sess *models.Session, id primitive.ObjectID, reason string) (*models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	auditRepo       repositories.AuditLogRepository
}

// NewParticipantService creates a new ParticipantService implementation
func NewParticipantService(participantRepo repositories.ParticipantRepository, auditRepo repositories.AuditLogRepository) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		auditRepo:       auditRepo,
	}
}

func (s *participantService) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error) {
	participants, err := s.participantRepo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *participantService) Create(ctx context.Context, sess *models.Session, req *models.CreateParticipantRequest) (*models.Participant, error) {
	participant := &models.Participant{
		OrgID:          sess.OrgID,
		EventID:        sess.SelectedEventID,
		Name:           req.Name,
		Department:     req.Department,
		RaffleEligible: true,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	s.auditAction(ctx, sess, models.AuditActionCreate, participant.ID.Hex(),
		map[string]interface{}{"name": utils.MaskName(participant.Name)})
	return participant, nil
}

func (s *participantService) Import(ctx context.Context, sess *models.Session, reqs []models.CreateParticipantRequest) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0, len(reqs))
	for i := range reqs {
		participant, err := s.Create(ctx, sess, &reqs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to import participant %d of %d: %w", i+1, len(reqs), err)
		}
		participants = append(participants, participant)
	}

	slog.Info("participants imported",
		"eventId", sess.SelectedEventID.Hex(), "count", len(participants), "by", sess.Username)
	return participants, nil
}

func (s *participantService) OptOut(ctx context.Context, sess *models.Session, id primitive.ObjectID, reason string) (*models.Participant, error) {
	// Reason is validated before any store call.
	trimmed, err := utils.ValidateReason(reason)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.participantRepo.OptOut(ctx, id, trimmed, now)
	if err != nil {
		return nil, fmt.Errorf("failed to opt out participant: %w", err)
	}
	if !ok {
		// Either unknown, or already opted out (possibly by another
		// client between our screens). Distinguish for the caller.
		participant, ferr := s.participantRepo.FindByID(ctx, id)
		if ferr != nil {
			if errors.Is(ferr, mongo.ErrNoDocuments) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("failed to fetch participant: %w", ferr)
		}
		if !participant.RaffleEligible {
			return nil, apperrors.ErrConcurrentMutation
		}
		return nil, apperrors.ErrNotFound
	}

	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participant after opt-out: %w", err)
	}

	s.auditAction(ctx, sess, models.AuditActionOptOut, id.Hex(), map[string]interface{}{"reason": trimmed})
	slog.Info("participant opted out",
		"participantId", id.Hex(), "name", utils.MaskName(participant.Name), "by", sess.Username)
	return participant, nil
}

func (s *participantService) auditAction(ctx context.Context, sess *models.Session, action models.AuditAction, objectID string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		OrgID:     sess.OrgID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		Action:    action,
		Model:     "Participant",
		ObjectID:  objectID,
		Changes:   changes,
		Timestamp: time.Now(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("failed to write audit log", "error", err, "action", action)
	}
}
