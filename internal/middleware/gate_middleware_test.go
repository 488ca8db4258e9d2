package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/gate"
	"github.com/nrsport/console-backend/internal/models"
)

type fakeAuthService struct {
	sessions map[string]*models.Session
}

func (s *fakeAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	return nil, nil
}

func (s *fakeAuthService) Logout(ctx context.Context, token string) {}

func (s *fakeAuthService) CheckAuth(ctx context.Context, token string) (*models.Session, error) {
	return s.sessions[token], nil
}

func newTestRouter(sessions map[string]*models.Session, capability auth.Capability, eventScoped bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gate.New("/dashboard/login", "/dashboard/events/select")
	authSvc := &fakeAuthService{sessions: sessions}

	router := gin.New()
	router.GET("/guarded",
		Authenticate(authSvc, g),
		Require(g, capability, eventScoped),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"username": SessionFrom(c).Username})
		})
	return router
}

func testSession(role auth.Role, eventSelected bool) *models.Session {
	sess := &models.Session{
		UserID:    primitive.NewObjectID(),
		Username:  "staff",
		Role:      role,
		OrgID:     primitive.NewObjectID(),
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if eventSelected {
		sess.SelectedEventID = primitive.NewObjectID()
	}
	return sess
}

func do(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	t.Run("Test missing token gets a login redirect", func(t *testing.T) {
		router := newTestRouter(map[string]*models.Session{}, auth.CapEventRead, false)
		w := do(router, "")

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Expected JSON body, got %v", err)
		}
		if body["code"] != "session_expired" {
			t.Errorf("Expected session_expired code, got %q", body["code"])
		}
		if body["redirect"] == "" {
			t.Error("Expected a login redirect target")
		}
	})

	t.Run("Test token from the cookie works too", func(t *testing.T) {
		sess := testSession(auth.RoleStaff, true)
		router := newTestRouter(map[string]*models.Session{"tok": sess}, auth.CapEventRead, false)

		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 via cookie, got %d", w.Code)
		}
	})
}

func TestRequire(t *testing.T) {
	t.Run("Test allowed request reaches the handler with the session", func(t *testing.T) {
		sess := testSession(auth.RoleStaff, true)
		router := newTestRouter(map[string]*models.Session{"tok": sess}, auth.CapRaffleDraw, true)
		w := do(router, "tok")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["username"] != "staff" {
			t.Errorf("Expected the session in the handler context, got %q", body["username"])
		}
	})

	t.Run("Test missing capability is forbidden", func(t *testing.T) {
		sess := testSession(auth.RoleViewer, true)
		router := newTestRouter(map[string]*models.Session{"tok": sess}, auth.CapRaffleDraw, true)
		w := do(router, "tok")

		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "forbidden" {
			t.Errorf("Expected forbidden code, got %q", body["code"])
		}
	})

	t.Run("Test event scoped route without selection conflicts", func(t *testing.T) {
		sess := testSession(auth.RoleStaff, false)
		router := newTestRouter(map[string]*models.Session{"tok": sess}, auth.CapRaffleDraw, true)
		w := do(router, "tok")

		if w.Code != http.StatusConflict {
			t.Fatalf("Expected 409, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "no_event_selected" {
			t.Errorf("Expected no_event_selected code, got %q", body["code"])
		}
		if body["redirect"] != "/dashboard/events/select" {
			t.Errorf("Expected event select redirect, got %q", body["redirect"])
		}
	})
}
