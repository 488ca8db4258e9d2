package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/models"
)

// Backend persists session records across process restarts. The store
// keeps an in-memory cache in front of it; the backend is the source
// of truth for logout.
type Backend interface {
	Get(ctx context.Context, token string) (*models.Session, error) // nil, nil when absent
	Set(ctx context.Context, token string, s *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// Store holds the active sessions of this process. One session per
// token; role and org scope never change after Put.
//
// Cache entries are immutable: mutations build a fresh session and
// swap the entry, and Get hands out copies. Concurrent requests on the
// same token never share a mutable struct.
type Store struct {
	mu      sync.RWMutex
	cache   map[string]*models.Session
	backend Backend
}

// NewStore creates a session store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{
		cache:   make(map[string]*models.Session),
		backend: backend,
	}
}

// Put registers a freshly authenticated session.
func (s *Store) Put(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}
	if err := s.backend.Set(ctx, sess.Token, sess, ttl); err != nil {
		return err
	}
	cached := *sess
	s.mu.Lock()
	s.cache[sess.Token] = &cached
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the session for a token, or nil when the token
// is unknown or the session has expired. Expired entries are evicted on
// the way out, so Get is safe to call on every request.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	now := time.Now()

	s.mu.RLock()
	sess, ok := s.cache[token]
	s.mu.RUnlock()

	if ok {
		if sess.Expired(now) {
			s.evict(ctx, token)
			return nil, nil
		}
		copied := *sess
		return &copied, nil
	}

	// Cache miss: another instance may have created the session, or
	// this process restarted since login.
	sess, err := s.backend.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(now) {
		s.evict(ctx, token)
		return nil, nil
	}
	sess.Token = token

	s.mu.Lock()
	s.cache[token] = sess
	s.mu.Unlock()
	copied := *sess
	return &copied, nil
}

// Delete removes a session unconditionally. Deleting an absent session
// is not an error; logout must never fail.
func (s *Store) Delete(ctx context.Context, token string) {
	s.evict(ctx, token)
}

func (s *Store) evict(ctx context.Context, token string) {
	s.mu.Lock()
	delete(s.cache, token)
	s.mu.Unlock()
	if err := s.backend.Delete(ctx, token); err != nil {
		slog.Warn("session backend delete failed", "error", err)
	}
}

// SelectEvent sets the session's current event. It reports whether the
// selection actually changed so the caller can discard draw state that
// belongs to the previous event. The backend write happens before the
// cache swap: a failed write leaves the previous selection in force, so
// callers never see a half-applied switch.
func (s *Store) SelectEvent(ctx context.Context, token string, eventID primitive.ObjectID) (bool, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, apperrors.ErrSessionExpired
	}
	if sess.SelectedEventID == eventID {
		return false, nil
	}

	// sess is a private copy; mutate it and swap it in whole.
	sess.SelectedEventID = eventID
	if err := s.backend.Set(ctx, token, sess, time.Until(sess.ExpiresAt)); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.cache[token] = sess
	s.mu.Unlock()
	return true, nil
}

// ClearEvent unsets the session's current event.
func (s *Store) ClearEvent(ctx context.Context, token string) error {
	_, err := s.SelectEvent(ctx, token, primitive.NilObjectID)
	return err
}
