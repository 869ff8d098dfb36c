package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"albumrank/database"
	"albumrank/internal/catalog/spotify"
	"albumrank/internal/config"
	"albumrank/internal/microservices/http-api/handler"
	"albumrank/internal/microservices/http-api/middleware"
	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/microservices/http-api/service"
	"albumrank/internal/microservices/websocket"
	"albumrank/internal/notify"
	"albumrank/internal/ranking"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Redis notifier for ranking change fan-out
	redisAddr := strings.TrimPrefix(strings.TrimPrefix(cfg.RedisURL, "redis://"), "rediss://")
	notifier, err := notify.NewRedisNotifier(redisAddr, cfg.RedisPassword, logger)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer notifier.Close()

	// External catalog client
	catalogClient := spotify.NewClient(
		cfg.CatalogAPIURL,
		cfg.CatalogTokenURL,
		cfg.CatalogClientID,
		cfg.CatalogClientSecret,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	listRepo := repository.NewListRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	ratingService := service.NewRatingService(albumRepo, ratingRepo, notifier, logger)
	rankingService := service.NewRankingService(albumRepo)
	listService := service.NewListService(listRepo, ratingService, logger)
	catalogService := service.NewCatalogService(catalogClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	rankingHandler := handler.NewRankingHandler(rankingService, cfg.RankingMinRatings, cfg.RankingLimit)
	listHandler := handler.NewListHandler(listService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// Live rankings feed
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(rankingService, notifier, ranking.Options{
		MinRatings: cfg.RankingMinRatings,
		Limit:      cfg.RankingLimit,
	}, logger)
	go func() {
		if err := hub.Run(hubCtx); err != nil && err != context.Canceled {
			logger.Error("ranking feed hub stopped", "error", err)
		}
	}()

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected ✅"})
	})

	authMW := middleware.AuthMiddleware(authService)

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api)
		rankingHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)

		albums := api.Group("/albums")
		ratingHandler.RegisterRoutes(albums, authMW)

		protected := api.Group("", authMW)
		listHandler.RegisterRoutes(protected)
	}

	r.GET("/ws/rankings", authMW, websocket.WSHandler(hub))

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_api_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}

	stopHub()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err.Error())
	}
	logger.Info("server_stopped_gracefully")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
