package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/services"
)

// RaffleHandler handles raffle related HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{raffleService: raffleService}
}

// ListRaffleEvents handles GET /raffle/events for the selected event
func (h *RaffleHandler) ListRaffleEvents(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	raffleEvents, err := h.raffleService.ListRaffleEvents(c.Request.Context(), sess.SelectedEventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffleEvents)
}

// CreateRaffleEvent handles POST /raffle/events
func (h *RaffleHandler) CreateRaffleEvent(c *gin.Context) {
	var req models.CreateRaffleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffleEvent, err := h.raffleService.CreateRaffleEvent(c.Request.Context(), middleware.SessionFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffleEvent)
}

// DeleteRaffleEvent handles DELETE /raffle/events/:id. The body must
// carry an audited reason.
func (h *RaffleHandler) DeleteRaffleEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle event id"})
		return
	}

	var req models.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.raffleService.DeleteRaffleEvent(c.Request.Context(), middleware.SessionFrom(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListPrizes handles GET /raffle/events/:id/prizes
func (h *RaffleHandler) ListPrizes(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle event id"})
		return
	}

	prizes, err := h.raffleService.ListPrizes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prizes)
}

// CreatePrize handles POST /raffle/events/:id/prizes
func (h *RaffleHandler) CreatePrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle event id"})
		return
	}

	var req models.CreatePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prize, err := h.raffleService.CreatePrize(c.Request.Context(), middleware.SessionFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// ResetPrize handles POST /raffle/prizes/:id/reset. Wipes the prize's
// confirmed winners so the draw can be rerun; the body must carry an
// audited reason.
func (h *RaffleHandler) ResetPrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prize id"})
		return
	}

	var req models.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.raffleService.ResetPrize(c.Request.Context(), middleware.SessionFrom(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// Spin handles POST /raffle/prizes/:id/spin — the propose half of the
// draw workflow. The returned proposal id is what save must echo back.
func (h *RaffleHandler) Spin(c *gin.Context) {
	prizeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prize id"})
		return
	}

	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.raffleService.Propose(c.Request.Context(), middleware.SessionFrom(c), prizeID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// SaveWinners handles POST /raffle/prizes/:id/save — the explicit
// confirm half of the draw workflow.
func (h *RaffleHandler) SaveWinners(c *gin.Context) {
	var req models.SaveWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winners, err := h.raffleService.Confirm(c.Request.Context(), middleware.SessionFrom(c), req.ProposalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}

// DiscardProposal handles DELETE /raffle/proposals/:id
func (h *RaffleHandler) DiscardProposal(c *gin.Context) {
	h.raffleService.Discard(middleware.SessionFrom(c), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

// ListWinners handles GET /raffle/events/:id/winners and the
// session-gated live display surface.
func (h *RaffleHandler) ListWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle event id"})
		return
	}

	winners, err := h.raffleService.ListWinners(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}
