package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/services"
	"github.com/nrsport/console-backend/internal/session"
)

// SessionHandler handles event selection for the current session
type SessionHandler struct {
	sessions      *session.Store
	eventService  services.EventService
	raffleService services.RaffleService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *session.Store, eventService services.EventService, raffleService services.RaffleService) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		eventService:  eventService,
		raffleService: raffleService,
	}
}

type selectEventRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

// SelectEvent handles PUT /session/event. Switching events discards
// any unconfirmed draw proposals so nothing leaks across events.
func (h *SessionHandler) SelectEvent(c *gin.Context) {
	var req selectEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	sess := middleware.SessionFrom(c)

	// The event must exist and belong to the session's organization.
	event, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	if event.OrgID != sess.OrgID {
		respondError(c, apperrors.ErrForbidden)
		return
	}

	changed, err := h.sessions.SelectEvent(c.Request.Context(), sess.Token, eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	if changed {
		h.raffleService.DiscardSessionProposals(sess.Token)
	}

	c.JSON(http.StatusOK, gin.H{"selectedEventId": eventID.Hex()})
}

// ClearEvent handles DELETE /session/event
func (h *SessionHandler) ClearEvent(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if err := h.sessions.ClearEvent(c.Request.Context(), sess.Token); err != nil {
		respondError(c, err)
		return
	}
	h.raffleService.DiscardSessionProposals(sess.Token)
	c.JSON(http.StatusOK, gin.H{"selectedEventId": nil})
}
