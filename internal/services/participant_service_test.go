package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/models"
)

func TestParticipantCreate(t *testing.T) {
	ctx := context.Background()
	sess := adminSession()
	sess.SelectedEventID = primitive.NewObjectID()

	t.Run("Test a new participant is scoped to the session and eligible", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		audit := newFakeAuditRepo()
		svc := NewParticipantService(repo, audit)

		p, err := svc.Create(ctx, sess, &models.CreateParticipantRequest{Name: "Alice", Department: "Engineering"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if p.OrgID != sess.OrgID || p.EventID != sess.SelectedEventID {
			t.Error("Expected the participant scoped to the session's org and selected event")
		}
		if !p.RaffleEligible {
			t.Error("Expected a new participant to be draw-eligible")
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != models.AuditActionCreate {
			t.Fatal("Expected one create audit entry")
		}
	})

	t.Run("Test import registers the whole roster", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		svc := NewParticipantService(repo, newFakeAuditRepo())

		reqs := []models.CreateParticipantRequest{
			{Name: "Alice", Department: "Engineering"},
			{Name: "Bob", Department: "Finance"},
			{Name: "Carol"},
		}
		participants, err := svc.Import(ctx, sess, reqs)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(participants) != 3 || len(repo.data) != 3 {
			t.Fatalf("Expected 3 participants stored, got %d returned, %d stored", len(participants), len(repo.data))
		}
		for _, p := range participants {
			if p.EventID != sess.SelectedEventID {
				t.Errorf("Expected %s scoped to the selected event", p.Name)
			}
		}
	})
}

func TestParticipantOptOut(t *testing.T) {
	ctx := context.Background()
	sess := adminSession()

	addParticipant := func(repo *fakeParticipantRepo, eligible bool) *models.Participant {
		p := &models.Participant{
			OrgID:          sess.OrgID,
			EventID:        primitive.NewObjectID(),
			Name:           "Alice",
			Department:     "Engineering",
			RaffleEligible: eligible,
		}
		_ = repo.Create(ctx, p)
		return p
	}

	t.Run("Test opt-out flips eligibility and records the reason", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		audit := newFakeAuditRepo()
		svc := NewParticipantService(repo, audit)
		p := addParticipant(repo, true)

		updated, err := svc.OptOut(ctx, sess, p.ID, "requested removal at the front desk")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if updated.RaffleEligible {
			t.Error("Expected participant to be ineligible after opt-out")
		}
		if updated.OptOutReason != "requested removal at the front desk" {
			t.Errorf("Expected the reason recorded, got %q", updated.OptOutReason)
		}
		if updated.OptOutAt.IsZero() {
			t.Error("Expected the opt-out time to be recorded")
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != models.AuditActionOptOut {
			t.Fatal("Expected one opt-out audit entry")
		}
		if audit.entries[0].Changes["reason"] != "requested removal at the front desk" {
			t.Error("Expected the audit entry to carry the reason")
		}
	})

	t.Run("Test a short reason is rejected before any store call", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		svc := NewParticipantService(repo, newFakeAuditRepo())
		p := addParticipant(repo, true)

		_, err := svc.OptOut(ctx, sess, p.ID, "nope")
		if !errors.Is(err, apperrors.ErrReasonTooShort) {
			t.Fatalf("Expected reason too short error, got %v", err)
		}
		if !repo.data[p.ID].RaffleEligible {
			t.Error("Expected participant untouched on a rejected reason")
		}
	})

	t.Run("Test a missing reason is a missing field", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		svc := NewParticipantService(repo, newFakeAuditRepo())
		p := addParticipant(repo, true)

		_, err := svc.OptOut(ctx, sess, p.ID, "   ")
		if !errors.Is(err, apperrors.ErrRequiredFieldMissing) {
			t.Errorf("Expected required field error, got %v", err)
		}
	})

	t.Run("Test unknown participant is not found", func(t *testing.T) {
		svc := NewParticipantService(newFakeParticipantRepo(), newFakeAuditRepo())
		_, err := svc.OptOut(ctx, sess, primitive.NewObjectID(), "requested removal at the front desk")
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected not found error, got %v", err)
		}
	})

	t.Run("Test double opt-out is a conflict", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		svc := NewParticipantService(repo, newFakeAuditRepo())
		p := addParticipant(repo, true)

		if _, err := svc.OptOut(ctx, sess, p.ID, "requested removal at the front desk"); err != nil {
			t.Fatalf("Expected first opt-out to succeed, got %v", err)
		}
		_, err := svc.OptOut(ctx, sess, p.ID, "opted out again by another screen")
		if !errors.Is(err, apperrors.ErrConcurrentMutation) {
			t.Errorf("Expected concurrent mutation error, got %v", err)
		}
	})

	t.Run("Test the original reason survives a second attempt", func(t *testing.T) {
		repo := newFakeParticipantRepo()
		svc := NewParticipantService(repo, newFakeAuditRepo())
		p := addParticipant(repo, true)

		_, _ = svc.OptOut(ctx, sess, p.ID, "requested removal at the front desk")
		_, _ = svc.OptOut(ctx, sess, p.ID, "a different reason entirely here")

		if repo.data[p.ID].OptOutReason != "requested removal at the front desk" {
			t.Errorf("Expected the first reason kept, got %q", repo.data[p.ID].OptOutReason)
		}
	})
}
