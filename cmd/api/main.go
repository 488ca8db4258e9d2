package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nrsport/console-backend/api/routes"
	"github.com/nrsport/console-backend/internal/config"
	"github.com/nrsport/console-backend/internal/gate"
	"github.com/nrsport/console-backend/internal/handlers"
	"github.com/nrsport/console-backend/internal/models"
	mongorepo "github.com/nrsport/console-backend/internal/repositories/mongodb"
	"github.com/nrsport/console-backend/internal/services"
	"github.com/nrsport/console-backend/internal/session"
	"github.com/nrsport/console-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from mongodb", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	sessions := session.NewStore(session.NewRedisBackend(redisClient))

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	eventRepo := mongorepo.NewEventRepository(db)
	participantRepo := mongorepo.NewParticipantRepository(db)
	raffleEventRepo := mongorepo.NewRaffleEventRepository(db)
	prizeRepo := mongorepo.NewPrizeRepository(db)
	winnerRepo := mongorepo.NewWinnerRepository(db)
	auditRepo := mongorepo.NewAuditLogRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, auditRepo, sessions, cfg)
	eventService := services.NewEventService(eventRepo, auditRepo)
	participantService := services.NewParticipantService(participantRepo, auditRepo)
	raffleService := services.NewRaffleService(
		raffleEventRepo,
		prizeRepo,
		participantRepo,
		winnerRepo,
		auditRepo,
		models.NoRepeatScope(cfg.Raffle.NoRepeatScope),
	)

	g := gate.New(cfg.Server.LoginPath, cfg.Server.EventSelectPath)

	deps := &routes.Dependencies{
		Config:      cfg,
		Gate:        g,
		AuthService: authService,

		AuthHandler:        handlers.NewAuthHandler(authService, raffleService),
		SessionHandler:     handlers.NewSessionHandler(sessions, eventService, raffleService),
		EventHandler:       handlers.NewEventHandler(eventService),
		ParticipantHandler: handlers.NewParticipantHandler(participantService),
		RaffleHandler:      handlers.NewRaffleHandler(raffleService),
		AuditHandler:       handlers.NewAuditHandler(auditRepo),
	}

	router := routes.SetupRouter(deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
