package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/config"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/session"
)

type fakeUserRepo struct {
	byName map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byName[u.Username] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range r.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

type memBackend struct {
	data map[string]*models.Session
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string]*models.Session)}
}

func (b *memBackend) Get(ctx context.Context, token string) (*models.Session, error) {
	sess, ok := b.data[token]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (b *memBackend) Set(ctx context.Context, token string, s *models.Session, ttl time.Duration) error {
	copied := *s
	b.data[token] = &copied
	return nil
}

func (b *memBackend) Delete(ctx context.Context, token string) error {
	delete(b.data, token)
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeAuditRepo, *session.Store) {
	t.Helper()
	users := newFakeUserRepo()
	audit := newFakeAuditRepo()
	sessions := session.NewStore(newMemBackend())
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(users, audit, sessions, cfg), users, audit, sessions
}

func addUser(t *testing.T, users *fakeUserRepo, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	u := &models.User{
		Username: username,
		Password: string(hash),
		Role:     auth.RoleStaff,
		OrgID:    primitive.NewObjectID(),
		IsActive: active,
	}
	_ = users.Create(context.Background(), u)
	return u
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Test valid credentials issue a working session", func(t *testing.T) {
		svc, users, audit, _ := newAuthFixture(t)
		addUser(t, users, "staff", "correct horse battery", true)

		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "staff", Password: "correct horse battery"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.Token == "" {
			t.Fatal("Expected a token")
		}
		if resp.Session.Role != auth.RoleStaff {
			t.Errorf("Expected staff role on the session, got %s", resp.Session.Role)
		}

		sess, err := svc.CheckAuth(ctx, resp.Token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if sess == nil || sess.Username != "staff" {
			t.Errorf("Expected the issued token to resolve to the session, got %+v", sess)
		}

		if len(audit.entries) != 1 || audit.entries[0].Action != models.AuditActionLogin {
			t.Error("Expected one login audit entry")
		}
	})

	t.Run("Test wrong password fails like an unknown user", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(t)
		addUser(t, users, "staff", "correct horse battery", true)

		_, wrongPw := svc.Login(ctx, &models.LoginRequest{Username: "staff", Password: "wrong"})
		_, unknown := svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "wrong"})

		if !errors.Is(wrongPw, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected invalid credentials for wrong password, got %v", wrongPw)
		}
		if !errors.Is(unknown, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected invalid credentials for unknown user, got %v", unknown)
		}
		if wrongPw.Error() != unknown.Error() {
			t.Error("Expected indistinguishable errors for wrong password and unknown user")
		}
	})

	t.Run("Test inactive account cannot log in", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(t)
		addUser(t, users, "former", "correct horse battery", false)

		_, err := svc.Login(ctx, &models.LoginRequest{Username: "former", Password: "correct horse battery"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected invalid credentials for inactive account, got %v", err)
		}
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("Test logout kills the session", func(t *testing.T) {
		svc, users, audit, _ := newAuthFixture(t)
		addUser(t, users, "staff", "correct horse battery", true)

		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "staff", Password: "correct horse battery"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		svc.Logout(ctx, resp.Token)

		sess, err := svc.CheckAuth(ctx, resp.Token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if sess != nil {
			t.Error("Expected the token to be dead after logout")
		}

		var found bool
		for _, e := range audit.entries {
			if e.Action == models.AuditActionLogout {
				found = true
			}
		}
		if !found {
			t.Error("Expected a logout audit entry")
		}
	})

	t.Run("Test logging out an unknown token is a no-op", func(t *testing.T) {
		svc, _, audit, _ := newAuthFixture(t)
		svc.Logout(ctx, "never-issued")
		if len(audit.entries) != 0 {
			t.Error("Expected no audit entry for an unknown token")
		}
	})
}

func TestAuthServiceCheckAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("Test empty token resolves to no session", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture(t)
		sess, err := svc.CheckAuth(ctx, "")
		if err != nil || sess != nil {
			t.Errorf("Expected nil, nil, got %+v, %v", sess, err)
		}
	})

	t.Run("Test garbage token resolves to no session", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture(t)
		sess, err := svc.CheckAuth(ctx, "not.a.jwt")
		if err != nil || sess != nil {
			t.Errorf("Expected nil, nil, got %+v, %v", sess, err)
		}
	})

	t.Run("Test a rejected token clears any stale session", func(t *testing.T) {
		svc, users, _, sessions := newAuthFixture(t)
		addUser(t, users, "staff", "correct horse battery", true)

		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "staff", Password: "correct horse battery"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		// Re-key the store under a token the validator rejects.
		stale := *resp.Session
		stale.Token = "tampered-token"
		if err := sessions.Put(ctx, &stale); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		sess, err := svc.CheckAuth(ctx, "tampered-token")
		if err != nil || sess != nil {
			t.Errorf("Expected the tampered token to resolve to nothing, got %+v, %v", sess, err)
		}
		if got, _ := sessions.Get(ctx, "tampered-token"); got != nil {
			t.Error("Expected the stale session to be evicted")
		}
	})
}
