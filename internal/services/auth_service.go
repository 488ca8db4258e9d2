package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/config"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/repositories"
	"github.com/nrsport/console-backend/internal/session"
	"github.com/nrsport/console-backend/pkg/jwt"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string)
	CheckAuth(ctx context.Context, token string) (*models.Session, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditLogRepository
	sessions  *session.Store
	cfg       *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(userRepo repositories.UserRepository, auditRepo repositories.AuditLogRepository, sessions *session.Store, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		sessions:  sessions,
		cfg:       cfg,
	}
}

// Login verifies credentials, issues a token and registers the session.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password.
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.JWT.ExpiresIn) * time.Second
	orgID := ""
	if !user.OrgID.IsZero() {
		orgID = user.OrgID.Hex()
	}
	token, err := jwt.Generate(s.cfg.JWT.Secret, user.ID.Hex(), user.Username, string(user.Role), orgID, user.IsJudge, ttl)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		OrgID:     user.OrgID,
		IsJudge:   user.IsJudge,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	s.audit(ctx, sess, models.AuditActionLogin, "User", user.ID.Hex(), nil)
	slog.Info("login", "username", user.Username, "role", user.Role)

	return &models.LoginResponse{Token: token, Session: sess}, nil
}

// Logout clears the session unconditionally. Logging out an already
// logged-out token is a no-op, never an error.
func (s *authService) Logout(ctx context.Context, token string) {
	sess, _ := s.sessions.Get(ctx, token)
	s.sessions.Delete(ctx, token)
	if sess != nil {
		s.audit(ctx, sess, models.AuditActionLogout, "User", sess.UserID.Hex(), nil)
		slog.Info("logout", "username", sess.Username)
	}
}

// CheckAuth re-validates the token and returns the session, or nil
// when the token is rejected. Safe and idempotent on every navigation.
func (s *authService) CheckAuth(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	if _, err := jwt.Validate(s.cfg.JWT.Secret, token); err != nil {
		// Rejected token: make sure no stale session survives it.
		s.sessions.Delete(ctx, token)
		return nil, nil
	}
	return s.sessions.Get(ctx, token)
}

func (s *authService) audit(ctx context.Context, sess *models.Session, action models.AuditAction, model, objectID string, changes map[string]interface{}) {
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
