package genres

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"albumrank/internal/catalog/spotify"
	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/microservices/http-api/repository"
)

// BackfillService fills in missing album genres from the catalog API. Albums
// enter the database through rating writes carrying only display metadata, so
// genres arrive later via this service: album -> primary artist -> artist genres.
type BackfillService struct {
	albumRepo repository.AlbumRepository
	catalog   *spotify.Client

	batchSize      int
	workerCount    int
	rateLimitDelay time.Duration

	mu        sync.Mutex
	attempted map[string]bool // albums already tried this run
	updated   int
	failed    int
}

// BackfillConfig holds configuration for the backfill service
type BackfillConfig struct {
	BatchSize      int           // albums fetched per repository query (default: 50)
	WorkerCount    int           // concurrent catalog lookups (default: 4)
	RateLimitDelay time.Duration // pause after a 429 before retrying (default: 5s)
}

// NewBackfillService creates a new backfill service instance
func NewBackfillService(albumRepo repository.AlbumRepository, catalog *spotify.Client, config BackfillConfig) *BackfillService {
	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = 50
	}
	workerCount := config.WorkerCount
	if workerCount == 0 {
		workerCount = 4
	}
	rateLimitDelay := config.RateLimitDelay
	if rateLimitDelay == 0 {
		rateLimitDelay = 5 * time.Second
	}

	return &BackfillService{
		albumRepo:      albumRepo,
		catalog:        catalog,
		batchSize:      batchSize,
		workerCount:    workerCount,
		rateLimitDelay: rateLimitDelay,
		attempted:      make(map[string]bool),
	}
}

// Run processes batches of albums with missing genres until none remain or
// ctx is cancelled. Returns the number of albums updated.
func (s *BackfillService) Run(ctx context.Context) (int, error) {
	log.Println("[GenreBackfill] Starting backfill...")

	for {
		select {
		case <-ctx.Done():
			return s.updated, ctx.Err()
		default:
		}

		albums, err := s.albumRepo.ListMissingGenres(ctx, s.batchSize)
		if err != nil {
			return s.updated, fmt.Errorf("failed to list albums missing genres: %w", err)
		}

		// Skip albums already tried this run so a batch of failures
		// does not loop forever.
		pending := make([]models.Album, 0, len(albums))
		s.mu.Lock()
		for _, album := range albums {
			if !s.attempted[album.ID] {
				s.attempted[album.ID] = true
				pending = append(pending, album)
			}
		}
		s.mu.Unlock()

		if len(pending) == 0 {
			break
		}

		log.Printf("[GenreBackfill] Processing batch: %d albums (%d workers)", len(pending), s.workerCount)

		pool := NewWorkerPool(ctx, s.workerCount)
		pool.Start()

		for _, album := range pending {
			album := album // Capture loop variable

			pool.Submit(func(ctx context.Context) error {
				if err := s.processAlbum(ctx, album.ID); err != nil {
					s.mu.Lock()
					s.failed++
					s.mu.Unlock()
					return fmt.Errorf("album %s: %w", album.ID, err)
				}
				s.mu.Lock()
				s.updated++
				s.mu.Unlock()
				return nil
			})
		}

		pool.Wait()
	}

	log.Printf("[GenreBackfill] Done: %d updated, %d failed", s.updated, s.failed)
	return s.updated, nil
}

// processAlbum resolves one album's genres through its primary artist.
// Rate limit responses pause the worker instead of failing the album.
func (s *BackfillService) processAlbum(ctx context.Context, albumID string) error {
	album, err := s.fetchAlbum(ctx, albumID)
	if err != nil {
		return err
	}

	if len(album.Artists) == 0 {
		return fmt.Errorf("catalog returned no artists")
	}

	artist, err := s.fetchArtist(ctx, album.Artists[0].ID)
	if err != nil {
		return err
	}

	genres := artist.Genres
	if len(genres) == 0 {
		// Mark as looked-up so the album is not re-fetched every run.
		genres = []string{"unknown"}
	}

	if err := s.albumRepo.UpdateGenres(ctx, albumID, genres); err != nil {
		return fmt.Errorf("failed to store genres: %w", err)
	}

	log.Printf("[GenreBackfill] ✅ %s <- %v (artist %s)", albumID, genres, artist.Name)
	return nil
}

func (s *BackfillService) fetchAlbum(ctx context.Context, albumID string) (*spotify.Album, error) {
	for {
		album, err := s.catalog.GetAlbum(ctx, albumID)
		if err == nil {
			return album, nil
		}
		if !spotify.IsRateLimited(err) {
			return nil, err
		}
		if waitErr := s.rateLimitPause(ctx); waitErr != nil {
			return nil, waitErr
		}
	}
}

func (s *BackfillService) fetchArtist(ctx context.Context, artistID string) (*spotify.Artist, error) {
	for {
		artist, err := s.catalog.GetArtist(ctx, artistID)
		if err == nil {
			return artist, nil
		}
		if !spotify.IsRateLimited(err) {
			return nil, err
		}
		if waitErr := s.rateLimitPause(ctx); waitErr != nil {
			return nil, waitErr
		}
	}
}

func (s *BackfillService) rateLimitPause(ctx context.Context) error {
	log.Printf("[GenreBackfill] Rate limited, pausing %s", s.rateLimitDelay)
	select {
	case <-time.After(s.rateLimitDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
