package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/config"
	"github.com/nrsport/console-backend/internal/gate"
	"github.com/nrsport/console-backend/internal/handlers"
	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/services"
)

// Dependencies collects everything the router needs wired in.
type Dependencies struct {
	Config      *config.Config
	Gate        *gate.Gate
	AuthService services.AuthService

	AuthHandler        *handlers.AuthHandler
	SessionHandler     *handlers.SessionHandler
	EventHandler       *handlers.EventHandler
	ParticipantHandler *handlers.ParticipantHandler
	RaffleHandler      *handlers.RaffleHandler
	AuditHandler       *handlers.AuditHandler
}

// SetupRouter sets up the router
func SetupRouter(deps *Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(deps.Config))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	g := deps.Gate

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		public.POST("/auth/login", deps.AuthHandler.Login)
	}

	// Everything below requires a live session.
	protected := router.Group("/api/v1")
	protected.Use(middleware.Authenticate(deps.AuthService, g))
	{
		protected.POST("/auth/logout", deps.AuthHandler.Logout)
		protected.GET("/auth/session", deps.AuthHandler.GetSession)

		// Event selection is the one event-scoped surface reachable
		// without a selection, otherwise nobody could ever select.
		protected.PUT("/session/event", deps.SessionHandler.SelectEvent)
		protected.DELETE("/session/event", deps.SessionHandler.ClearEvent)

		events := protected.Group("/events")
		{
			events.GET("", middleware.Require(g, auth.CapEventRead, false), deps.EventHandler.ListEvents)
			events.GET("/:id", middleware.Require(g, auth.CapEventRead, false), deps.EventHandler.GetEvent)
			events.POST("", middleware.Require(g, auth.CapEventWrite, false), deps.EventHandler.CreateEvent)
			events.PATCH("/:id/status", middleware.Require(g, auth.CapEventStatus, false), deps.EventHandler.UpdateStatus)
		}

		participants := protected.Group("/participants")
		{
			participants.GET("", middleware.Require(g, auth.CapParticipantRead, true), deps.ParticipantHandler.ListParticipants)
			participants.POST("", middleware.Require(g, auth.CapParticipantWrite, true), deps.ParticipantHandler.CreateParticipant)
			participants.POST("/import", middleware.Require(g, auth.CapParticipantWrite, true), deps.ParticipantHandler.ImportParticipants)
			participants.PATCH("/:id/opt-out", middleware.Require(g, auth.CapParticipantOptOut, true), deps.ParticipantHandler.OptOut)
		}

		raffle := protected.Group("/raffle")
		{
			raffle.GET("/events", middleware.Require(g, auth.CapRaffleRead, true), deps.RaffleHandler.ListRaffleEvents)
			raffle.POST("/events", middleware.Require(g, auth.CapRaffleWrite, true), deps.RaffleHandler.CreateRaffleEvent)
			raffle.DELETE("/events/:id", middleware.Require(g, auth.CapRaffleDelete, true), deps.RaffleHandler.DeleteRaffleEvent)

			raffle.GET("/events/:id/prizes", middleware.Require(g, auth.CapRaffleRead, true), deps.RaffleHandler.ListPrizes)
			raffle.POST("/events/:id/prizes", middleware.Require(g, auth.CapRaffleWrite, true), deps.RaffleHandler.CreatePrize)

			raffle.POST("/prizes/:id/reset", middleware.Require(g, auth.CapRaffleDelete, true), deps.RaffleHandler.ResetPrize)
			raffle.POST("/prizes/:id/spin", middleware.Require(g, auth.CapRaffleDraw, true), deps.RaffleHandler.Spin)
			raffle.POST("/prizes/:id/save", middleware.Require(g, auth.CapRaffleDraw, true), deps.RaffleHandler.SaveWinners)
			raffle.DELETE("/proposals/:id", middleware.Require(g, auth.CapRaffleDraw, true), deps.RaffleHandler.DiscardProposal)

			raffle.GET("/events/:id/winners", middleware.Require(g, auth.CapRaffleRead, true), deps.RaffleHandler.ListWinners)
		}

		// The winner display board is read-only and session-gated but
		// not capability-gated, so a viewer account can drive it.
		protected.GET("/display/raffle/:id/winners", deps.RaffleHandler.ListWinners)

		protected.GET("/audit", middleware.Require(g, auth.CapEventWrite, false), deps.AuditHandler.ListAuditLogs)
	}

	return router
}
