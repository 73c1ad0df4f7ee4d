package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edlink/config"
	"edlink/internal/broker"
	"edlink/internal/database"
	"edlink/internal/logger"
	"edlink/internal/middleware"
	"edlink/internal/router"
	"edlink/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.Log)
	log := logger.L()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if cfg.Server.Env == "development" {
		if err := database.SeedDemo(db); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	var events broker.Publisher = broker.NewLocalBroker(hub)
	if cfg.Redis.Address != "" {
		rb, err := broker.NewRedisBroker(ctx, cfg.Redis, hub)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rb.Close()
		go func() {
			if err := rb.Run(logger.WithLogger(ctx, *log)); err != nil {
				log.Error().Err(err).Msg("redis relay stopped")
			}
		}()
		events = rb
		log.Info().Str("address", cfg.Redis.Address).Msg("redis fan-out enabled")
	}

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(ctx, time.Minute)

	engine := router.Setup(cfg, router.Deps{
		DB:      db,
		Hub:     hub,
		Events:  events,
		Limiter: limiter,
		Log:     *log,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
