package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/services"
)

// ParticipantHandler handles participant related HTTP requests
type ParticipantHandler struct {
	participantService services.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// ListParticipants handles GET /participants for the selected event
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	participants, err := h.participantService.ListByEvent(c.Request.Context(), sess.SelectedEventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// CreateParticipant handles POST /participants
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req models.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.participantService.Create(c.Request.Context(), middleware.SessionFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// ImportParticipants handles POST /participants/import, registering a
// whole roster in one request.
func (h *ParticipantHandler) ImportParticipants(c *gin.Context) {
	var req models.ImportParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participants, err := h.participantService.Import(c.Request.Context(), middleware.SessionFrom(c), req.Participants)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(participants), "participants": participants})
}

// OptOut handles PATCH /participants/:id/opt-out
func (h *ParticipantHandler) OptOut(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}

	var req models.OptOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.participantService.OptOut(c.Request.Context(), middleware.SessionFrom(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}
