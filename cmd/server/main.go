package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/config"
	"github.com/freeeve/frontier-dominion/internal/handler"
	"github.com/freeeve/frontier-dominion/internal/logger"
	"github.com/freeeve/frontier-dominion/internal/middleware"
	"github.com/freeeve/frontier-dominion/internal/repository/archive"
	redisrepo "github.com/freeeve/frontier-dominion/internal/repository/redis"
	"github.com/freeeve/frontier-dominion/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev})
	log.Info().Str("port", cfg.Port).Bool("archive", cfg.DatabaseURL != "").Msg("Config loaded")

	if cfg.RedisURL == "" {
		log.Fatal().Msg("REDIS_URL is required for the spectator server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Archive (optional)
	campaignArchive, closeArchive, err := archive.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Archive connection failed")
	}
	defer closeArchive()

	// WebSocket hub fed by the events channel
	wsHub := handler.NewHub()
	relay := service.NewRelay(redisClient, wsHub)

	// Handlers
	campaignHandler := handler.NewCampaignHandler(redisClient, campaignArchive)
	wsHandler := handler.NewWSHandler(wsHub)

	mux := http.NewServeMux()
	handler.Routes(mux, campaignHandler, wsHandler)

	root := middleware.Chain(mux, middleware.Logger, middleware.Recover, middleware.CORS(cfg.AllowedOrigins))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go relay.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
