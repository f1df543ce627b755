package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focushub/database"
	"focushub/internal/config"
	"focushub/internal/events"
	"focushub/internal/logging"
	"focushub/internal/microservices/http-api/handler"
	"focushub/internal/microservices/http-api/middleware"
	"focushub/internal/microservices/http-api/repository"
	"focushub/internal/microservices/http-api/router"
	"focushub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat, "api-server")
	logger := logging.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	conns, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer conns.Close()

	sqlDB, err := conns.SQL()
	if err != nil {
		logger.Fatal().Err(err).Msg("database handle unavailable")
	}
	if cfg.RunMigrations {
		if err := database.RunMigrations(sqlDB); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
	}

	// Redis is optional; without it averages are computed on every read
	rdb := service.NewRedisClient(cfg.RedisURL)
	if rdb != nil {
		defer rdb.Close()
	}

	store := repository.NewStore(conns.Primary, conns.Reader)
	bus := events.NewBus()

	statsCache := service.NewStatsCache(rdb, cfg.StatsCacheTTL)

	notificationService := service.NewNotificationService(store, service.LogPusher{})
	notificationService.Subscribe(bus)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	done := make(chan struct{})
	limiter.StartCleanup(10*time.Minute, done)

	r := router.New(router.Deps{
		Ratings:       service.NewRatingService(store, statsCache, bus),
		Posts:         service.NewPostService(store),
		Comments:      service.NewCommentService(store, bus),
		Notifications: notificationService,
		Profiles:      service.NewUserService(store),
		Users:         repository.NewUserRepository(conns.Primary),
		JWTSecret:     []byte(cfg.JWTSecret),
		RateLimiter:   limiter,
		Health:        handler.NewHealthHandler(sqlDB, rdb),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info().Msg("received shutdown signal")
	case err := <-errChan:
		logger.Error().Err(err).Msg("server error")
	}

	close(done)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logger.Info().Msg("server stopped gracefully")
}
