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
)

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, sess *models.Session, req *models.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	ListEvents(ctx context.Context, orgID primitive.ObjectID) ([]*models.Event, error)
	// UpdateStatus performs one explicit status transition. Illegal
	// transitions fail with status_transition_invalid; races with
	// another client fail with concurrent_mutation.
	UpdateStatus(ctx context.Context, sess *models.Session, id primitive.ObjectID, target models.EventStatus) (*models.Event, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	auditRepo repositories.AuditLogRepository
}

// NewEventService creates a new EventService implementation
func NewEventService(eventRepo repositories.EventRepository, auditRepo repositories.AuditLogRepository) EventService {
	return &eventService{
		eventRepo: eventRepo,
		auditRepo: auditRepo,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, sess *models.Session, req *models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		OrgID:       sess.OrgID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.EventStatusDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.audit(ctx, sess, models.AuditActionCreate, "Event", event.ID.Hex(), map[string]interface{}{"name": event.Name})
	slog.Info("event created", "eventId", event.ID.Hex(), "name", event.Name)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, orgID primitive.ObjectID) ([]*models.Event, error) {
	events, err := s.eventRepo.FindByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, sess *models.Session, id primitive.ObjectID, target models.EventStatus) (*models.Event, error) {
	if !target.Valid() {
		return nil, apperrors.ErrRequiredFieldMissing
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransitionTo(target) {
		slog.Warn("illegal event status transition rejected",
			"eventId", id.Hex(), "from", event.Status, "to", target)
		return nil, apperrors.Wrap(apperrors.CodeStatusTransitionInvalid,
			fmt.Sprintf("cannot transition event from %s to %s", event.Status, target), nil)
	}

	// Compare-and-set against the status we read. Losing the race
	// surfaces as a conflict instead of a silent overwrite.
	ok, err := s.eventRepo.UpdateStatus(ctx, id, event.Status, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrConcurrentMutation
	}

	s.audit(ctx, sess, models.AuditActionUpdate, "Event", id.Hex(), map[string]interface{}{
		"from": string(event.Status),
		"to":   string(target),
	})
	slog.Info("event status updated", "eventId", id.Hex(), "from", event.Status, "to", target)

	event.Status = target
	event.UpdatedAt = time.Now()
	return event, nil
}

func (s *eventService) audit(ctx context.Context, sess *models.Session, action models.AuditAction, model, objectID string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		OrgID:     sess.OrgID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		Action:    action,
		Model:     model,
		ObjectID:  objectID,
		Changes:   changes,
		Timestamp: time.Now(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("failed to write audit log", "error", err, "action", action, "model", model)
	}
}
