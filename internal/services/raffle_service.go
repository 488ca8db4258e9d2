package services

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/repositories"
	"github.com/nrsport/console-backend/internal/utils"
)

// RaffleService defines the interface for raffle management and the
// two-phase draw workflow.
type RaffleService interface {
	CreateRaffleEvent(ctx context.Context, sess *models.Session, req *models.CreateRaffleEventRequest) (*models.RaffleEvent, error)
	ListRaffleEvents(ctx context.Context, eventID primitive.ObjectID) ([]*models.RaffleEvent, error)
	GetRaffleEvent(ctx context.Context, id primitive.ObjectID) (*models.RaffleEvent, error)
	// DeleteRaffleEvent removes a raffle with its prizes and winners.
	// The reason is validated locally and recorded in the audit log.
	DeleteRaffleEvent(ctx context.Context, sess *models.Session, id primitive.ObjectID, reason string) error

	CreatePrize(ctx context.Context, sess *models.Session, raffleEventID primitive.ObjectID, req *models.CreatePrizeRequest) (*models.Prize, error)
	ListPrizes(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Prize, error)
	ListWinners(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Winner, error)
	// ResetPrize deletes a prize's confirmed winners so it can be drawn
	// again. The reason is validated locally and recorded in the audit log.
	ResetPrize(ctx context.Context, sess *models.Session, prizeID primitive.ObjectID, reason string) error

	// Propose draws a uniform random sample from the eligible pool and
	// holds it in memory. Nothing is persisted until Confirm.
	Propose(ctx context.Context, sess *models.Session, prizeID primitive.ObjectID, quantity int) (*models.DrawProposal, error)
	// Confirm re-validates every proposed participant and persists the
	// winner set atomically. A pool change since Propose rejects the
	// whole set and requires a fresh Propose.
	Confirm(ctx context.Context, sess *models.Session, proposalID string) ([]*models.Winner, error)
	// Discard drops an unconfirmed proposal. Always safe.
	Discard(sess *models.Session, proposalID string)
	// DiscardSessionProposals drops every unconfirmed proposal of a
	// session. Called on logout and on event switch so draw state never
	// leaks across events.
	DiscardSessionProposals(token string)
}

type raffleService struct {
	raffleEventRepo repositories.RaffleEventRepository
	prizeRepo       repositories.PrizeRepository
	participantRepo repositories.ParticipantRepository
	winnerRepo      repositories.WinnerRepository
	auditRepo       repositories.AuditLogRepository
	noRepeatScope   models.NoRepeatScope

	mu        sync.Mutex
	proposals map[string]*models.DrawProposal
	bySession map[string]map[string]bool // session token -> proposal ids
	owner     map[string]string          // proposal id -> session token
	rng       *rand.Rand
}

// NewRaffleService creates a new RaffleService implementation. The
// random source is seeded from crypto/rand once per process.
func NewRaffleService(
	raffleEventRepo repositories.RaffleEventRepository,
	prizeRepo repositories.PrizeRepository,
	participantRepo repositories.ParticipantRepository,
	winnerRepo repositories.WinnerRepository,
	auditRepo repositories.AuditLogRepository,
	noRepeatScope models.NoRepeatScope,
) RaffleService {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		binary.BigEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	}

	return &raffleService{
		raffleEventRepo: raffleEventRepo,
		prizeRepo:       prizeRepo,
		participantRepo: participantRepo,
		winnerRepo:      winnerRepo,
		auditRepo:       auditRepo,
		noRepeatScope:   noRepeatScope,
		proposals:       make(map[string]*models.DrawProposal),
		bySession:       make(map[string]map[string]bool),
		owner:           make(map[string]string),
		rng:             rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(seed[:])))),
	}
}

// --- Raffle event and prize management ---

func (s *raffleService) CreateRaffleEvent(ctx context.Context, sess *models.Session, req *models.CreateRaffleEventRequest) (*models.RaffleEvent, error) {
	raffleEvent := &models.RaffleEvent{
		OrgID:         sess.OrgID,
		EventID:       sess.SelectedEventID,
		Name:          req.Name,
		Description:   req.Description,
		NoRepeatPrize: req.NoRepeatPrize,
	}
	if err := s.raffleEventRepo.Create(ctx, raffleEvent); err != nil {
		return nil, fmt.Errorf("failed to create raffle event: %w", err)
	}

	s.audit(ctx, sess, models.AuditActionCreate, "RaffleEvent", raffleEvent.ID.Hex(),
		map[string]interface{}{"name": raffleEvent.Name})
	return raffleEvent, nil
}

func (s *raffleService) ListRaffleEvents(ctx context.Context, eventID primitive.ObjectID) ([]*models.RaffleEvent, error) {
	raffleEvents, err := s.raffleEventRepo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffle events: %w", err)
	}
	return raffleEvents, nil
}

func (s *raffleService) GetRaffleEvent(ctx context.Context, id primitive.ObjectID) (*models.RaffleEvent, error) {
	raffleEvent, err := s.raffleEventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch raffle event: %w", err)
	}
	return raffleEvent, nil
}

func (s *raffleService) DeleteRaffleEvent(ctx context.Context, sess *models.Session, id primitive.ObjectID, reason string) error {
	trimmed, err := utils.ValidateReason(reason)
	if err != nil {
		return err
	}

	raffleEvent, err := s.GetRaffleEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.winnerRepo.DeleteByRaffleEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete raffle winners: %w", err)
	}
	if err := s.prizeRepo.DeleteByRaffleEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete raffle prizes: %w", err)
	}
	if err := s.raffleEventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete raffle event: %w", err)
	}

	s.audit(ctx, sess, models.AuditActionDelete, "RaffleEvent", id.Hex(),
		map[string]interface{}{"name": raffleEvent.Name, "reason": trimmed})
	slog.Info("raffle event deleted", "raffleEventId", id.Hex(), "by", sess.Username)
	return nil
}

func (s *raffleService) CreatePrize(ctx context.Context, sess *models.Session, raffleEventID primitive.ObjectID, req *models.CreatePrizeRequest) (*models.Prize, error) {
	if _, err := s.GetRaffleEvent(ctx, raffleEventID); err != nil {
		return nil, err
	}

	prize := &models.Prize{
		RaffleEventID: raffleEventID,
		RoundNumber:   req.RoundNumber,
		Name:          req.Name,
		Quantity:      req.Quantity,
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return nil, fmt.Errorf("failed to create prize: %w", err)
	}

	s.audit(ctx, sess, models.AuditActionCreate, "Prize", prize.ID.Hex(),
		map[string]interface{}{"name": prize.Name, "quantity": prize.Quantity})
	return prize, nil
}

func (s *raffleService) ListPrizes(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Prize, error) {
	prizes, err := s.prizeRepo.FindByRaffleEvent(ctx, raffleEventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	return prizes, nil
}

func (s *raffleService) ListWinners(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Winner, error) {
	winners, err := s.winnerRepo.FindByRaffleEvent(ctx, raffleEventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}

func (s *raffleService) ResetPrize(ctx context.Context, sess *models.Session, prizeID primitive.ObjectID, reason string) error {
	trimmed, err := utils.ValidateReason(reason)
	if err != nil {
		return err
	}

	prize, err := s.prizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to fetch prize: %w", err)
	}

	if err := s.winnerRepo.DeleteByPrize(ctx, prizeID); err != nil {
		return fmt.Errorf("failed to delete prize winners: %w", err)
	}

	s.audit(ctx, sess, models.AuditActionReset, "Prize", prizeID.Hex(),
		map[string]interface{}{"name": prize.Name, "reason": trimmed})
	slog.Info("prize reset", "prizeId", prizeID.Hex(), "by", sess.Username)
	return nil
}

// --- Two-phase draw workflow ---

func (s *raffleService) Propose(ctx context.Context, sess *models.Session, prizeID primitive.ObjectID, quantity int) (*models.DrawProposal, error) {
	prize, err := s.prizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch prize: %w", err)
	}
	raffleEvent, err := s.GetRaffleEvent(ctx, prize.RaffleEventID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		quantity = prize.Quantity
	}

	pool, err := s.eligiblePool(ctx, raffleEvent)
	if err != nil {
		return nil, err
	}

	if len(pool) < quantity {
		slog.Warn("draw pool too small",
			"prizeId", prizeID.Hex(), "required", quantity, "available", len(pool))
		return nil, apperrors.Wrap(apperrors.CodeInsufficientPool,
			fmt.Sprintf("required %d, available %d", quantity, len(pool)), nil)
	}

	proposal := &models.DrawProposal{
		ID:            primitive.NewObjectID().Hex(),
		PrizeID:       prize.ID,
		RaffleEventID: raffleEvent.ID,
		EventID:       raffleEvent.EventID,
		Seed:          utils.GenerateSeed(prizeID.Hex()),
		State:         models.DrawStateProposing,
		EligibleCount: len(pool),
		CreatedAt:     time.Now(),
	}

	s.mu.Lock()
	proposal.Winners = s.sample(pool, quantity)
	proposal.State = models.DrawStateProposed
	s.proposals[proposal.ID] = proposal
	s.owner[proposal.ID] = sess.Token
	if s.bySession[sess.Token] == nil {
		s.bySession[sess.Token] = make(map[string]bool)
	}
	s.bySession[sess.Token][proposal.ID] = true
	s.mu.Unlock()

	slog.Info("draw proposed",
		"prizeId", prizeID.Hex(), "quantity", quantity, "eligible", len(pool), "proposalId", proposal.ID)
	return proposal, nil
}

func (s *raffleService) Confirm(ctx context.Context, sess *models.Session, proposalID string) ([]*models.Winner, error) {
	s.mu.Lock()
	proposal, ok := s.proposals[proposalID]
	if !ok || s.owner[proposalID] != sess.Token {
		s.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	if proposal.State != models.DrawStateProposed {
		s.mu.Unlock()
		return nil, apperrors.ErrConcurrentMutation
	}
	proposal.State = models.DrawStateConfirming
	s.mu.Unlock()

	winners, err := s.confirmProposal(ctx, sess, proposal)
	if err != nil {
		// Whatever failed, the proposal is spent: a fresh Propose is
		// required rather than retrying against stale state.
		s.remove(proposalID)
		return nil, err
	}

	s.mu.Lock()
	proposal.State = models.DrawStateConfirmed
	s.mu.Unlock()
	s.remove(proposalID)
	return winners, nil
}

func (s *raffleService) confirmProposal(ctx context.Context, sess *models.Session, proposal *models.DrawProposal) ([]*models.Winner, error) {
	ids := make([]primitive.ObjectID, 0, len(proposal.Winners))
	for _, w := range proposal.Winners {
		ids = append(ids, w.ID)
	}

	// Re-validate against current state: a participant may have been
	// opted out, or won elsewhere, between propose and confirm.
	current, err := s.participantRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to re-validate proposed winners: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.Participant, len(current))
	for _, p := range current {
		byID[p.ID] = p
	}

	raffleEvent, err := s.GetRaffleEvent(ctx, proposal.RaffleEventID)
	if err != nil {
		return nil, err
	}
	alreadyWon := map[primitive.ObjectID]bool{}
	if raffleEvent.NoRepeatPrize {
		alreadyWon, err = s.winnerRepo.WinnerParticipantIDs(ctx, s.noRepeatScope, raffleEvent.ID, raffleEvent.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch prior winners: %w", err)
		}
	}

	for _, proposed := range proposal.Winners {
		p, found := byID[proposed.ID]
		if !found || !p.RaffleEligible || alreadyWon[p.ID] {
			slog.Warn("proposal invalidated by pool change",
				"proposalId", proposal.ID, "participantId", proposed.ID.Hex())
			return nil, apperrors.ErrPoolChanged
		}
	}

	now := time.Now()
	winners := make([]*models.Winner, 0, len(proposal.Winners))
	for _, p := range proposal.Winners {
		winners = append(winners, &models.Winner{
			PrizeID:       proposal.PrizeID,
			RaffleEventID: proposal.RaffleEventID,
			EventID:       proposal.EventID,
			ParticipantID: p.ID,
			Name:          p.Name,
			Department:    p.Department,
			Seed:          proposal.Seed,
			DrawnAt:       now,
		})
	}

	// All-or-nothing persist. Concurrent confirms of overlapping sets
	// are rejected by the store, never merged.
	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		return nil, err
	}

	s.audit(ctx, sess, models.AuditActionDraw, "Winner", proposal.PrizeID.Hex(), map[string]interface{}{
		"proposalId": proposal.ID,
		"seed":       proposal.Seed,
		"count":      len(winners),
	})
	slog.Info("winners confirmed",
		"prizeId", proposal.PrizeID.Hex(), "count", len(winners), "seed", proposal.Seed)
	return winners, nil
}

func (s *raffleService) Discard(sess *models.Session, proposalID string) {
	s.mu.Lock()
	owner, ok := s.owner[proposalID]
	s.mu.Unlock()
	if ok && owner == sess.Token {
		s.remove(proposalID)
	}
}

func (s *raffleService) DiscardSessionProposals(token string) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.bySession[token]))
	for id := range s.bySession[token] {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.remove(id)
	}
}

func (s *raffleService) remove(proposalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.owner[proposalID]; ok {
		delete(s.bySession[token], proposalID)
		if len(s.bySession[token]) == 0 {
			delete(s.bySession, token)
		}
	}
	delete(s.owner, proposalID)
	delete(s.proposals, proposalID)
}

// eligiblePool builds the draw pool: eligible participants of the
// raffle's event, minus prior winners when the no-repeat rule applies.
func (s *raffleService) eligiblePool(ctx context.Context, raffleEvent *models.RaffleEvent) ([]*models.Participant, error) {
	pool, err := s.participantRepo.FindEligibleByEvent(ctx, raffleEvent.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible participants: %w", err)
	}

	if !raffleEvent.NoRepeatPrize {
		return pool, nil
	}

	alreadyWon, err := s.winnerRepo.WinnerParticipantIDs(ctx, s.noRepeatScope, raffleEvent.ID, raffleEvent.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prior winners: %w", err)
	}
	filtered := pool[:0]
	for _, p := range pool {
		if !alreadyWon[p.ID] {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// sample picks n distinct participants uniformly via a partial
// Fisher-Yates shuffle. rand.Intn rejects out-of-range values
// internally, so there is no modulo bias toward list order. Caller
// holds s.mu for the rng.
func (s *raffleService) sample(pool []*models.Participant, n int) []*models.Participant {
	shuffled := make([]*models.Participant, len(pool))
	copy(shuffled, pool)
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

func (s *raffleService) audit(ctx context.Context, sess *models.Session, action models.AuditAction, model, objectID string, changes map[string]interface{}) {
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
