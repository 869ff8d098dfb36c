package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"albumrank/database"
	"albumrank/internal/catalog/spotify"
	"albumrank/internal/config"
	"albumrank/internal/ingestion/genres"
	"albumrank/internal/microservices/http-api/repository"
)

func main() {
	log.Println("===========================================")
	log.Println("   Genre Backfill Starting...")
	log.Println("===========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("[Fatal] Failed to connect to database: %v", err)
	}
	log.Println("[Database] ✅ Connected successfully")

	catalogClient := spotify.NewClient(
		cfg.CatalogAPIURL,
		cfg.CatalogTokenURL,
		cfg.CatalogClientID,
		cfg.CatalogClientSecret,
	)

	backfillConfig := genres.BackfillConfig{
		BatchSize:      getEnvInt("GENRE_BACKFILL_BATCH", 50),
		WorkerCount:    getEnvInt("GENRE_BACKFILL_WORKERS", 4),
		RateLimitDelay: time.Duration(getEnvInt("GENRE_BACKFILL_RATE_DELAY_SEC", 5)) * time.Second,
	}

	log.Println("[Config] Loaded configuration:")
	log.Printf("  - Batch Size: %d", backfillConfig.BatchSize)
	log.Printf("  - Worker Count: %d", backfillConfig.WorkerCount)
	log.Printf("  - Rate Limit Delay: %s", backfillConfig.RateLimitDelay)

	albumRepo := repository.NewAlbumRepository(db)
	backfill := genres.NewBackfillService(albumRepo, catalogClient, backfillConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n[Shutdown] Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	updated, err := backfill.Run(ctx)
	if err != nil {
		log.Printf("[GenreBackfill] Error: %v (%d albums updated before failure)", err, updated)
		os.Exit(1)
	}

	log.Printf("[GenreBackfill] ✅ Completed: %d albums updated", updated)
	log.Println("===========================================")
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
