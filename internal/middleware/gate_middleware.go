package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/gate"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/services"
)

const (
	// SessionKey is the gin context key holding the resolved session.
	SessionKey = "session"
	// TokenCookie matches the cookie set by the console frontend.
	TokenCookie = "nrsport_access_token"
)

// ExtractToken pulls the session token from the Authorization header
// or, failing that, the session cookie.
func ExtractToken(c *gin.Context) string {
	const bearerSchema = "Bearer "
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerSchema) {
		return header[len(bearerSchema):]
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionFrom returns the session stored by Authenticate, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	return nil
}

// Authenticate resolves and re-validates the session on every request.
// Unauthenticated requests are turned away with the login redirect,
// carrying the originally requested path as the return target.
func Authenticate(authService services.AuthService, g *gate.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := authService.CheckAuth(c.Request.Context(), ExtractToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}

		decision := g.Evaluate(sess, gate.Target{Path: c.Request.URL.RequestURI()})
		if !decision.Allowed() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"code":     "session_expired",
				"redirect": decision.RedirectTo,
			})
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// Require gates a route on a capability and, optionally, on an event
// being selected. Runs after Authenticate.
func Require(g *gate.Gate, capability auth.Capability, eventScoped bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		decision := g.Evaluate(sess, gate.Target{
			Path:        c.Request.URL.RequestURI(),
			Capability:  capability,
			EventScoped: eventScoped,
		})

		switch decision.Action {
		case gate.ActionAllow:
			c.Next()
		case gate.ActionRedirectLogin:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"code":     "session_expired",
				"redirect": decision.RedirectTo,
			})
		case gate.ActionRedirectEventSelect:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":    "no event selected",
				"code":     "no_event_selected",
				"redirect": decision.RedirectTo,
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
				"code":  "forbidden",
			})
		}
	}
}
