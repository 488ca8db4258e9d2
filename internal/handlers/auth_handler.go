package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/services"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService   services.AuthService
	raffleService services.RaffleService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, raffleService services.RaffleService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		raffleService: raffleService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Always succeeds; draw proposals of
// the session are discarded with it.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token != "" {
		h.raffleService.DiscardSessionProposals(token)
		h.authService.Logout(c.Request.Context(), token)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// GetSession handles GET /auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.SessionFrom(c))
}
