package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brazzinioc/twitter-api/internal/api"
	"github.com/brazzinioc/twitter-api/internal/auth"
	"github.com/brazzinioc/twitter-api/internal/config"
	"github.com/brazzinioc/twitter-api/internal/logger"
	"github.com/brazzinioc/twitter-api/internal/monitoring"
	"github.com/brazzinioc/twitter-api/internal/services"
	"github.com/brazzinioc/twitter-api/internal/storage"
	"github.com/brazzinioc/twitter-api/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// The signing key must be set after config.Load so a .env-provided
	// secret is picked up.
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; auth tokens will be signed with an empty key")
	}
	auth.Init(cfg.JWTSecret)

	// Ensure the backup directory exists
	if err := os.MkdirAll(cfg.BackupDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create backup directory")
	}

	// Set up the collection store
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(store, hub)
	userService := services.NewUserService(store, eventService)
	tweetService := services.NewTweetService(store, userService, eventService)
	backupService := services.NewBackupService(store, cfg.BackupDir, cfg.BackupRetention)

	// Set up and run the background snapshot scheduler
	scheduler, err := monitoring.NewScheduler(backupService, cfg.BackupSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.BackupSchedule).Msg("Invalid backup schedule")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(hub, userService, tweetService, eventService, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
