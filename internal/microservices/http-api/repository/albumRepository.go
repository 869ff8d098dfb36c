package repository

import (
	"context"
	"errors"
	"fmt"

	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/ranking"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAggregationConflict means the rating transaction could not commit after
	// the retry budget was spent. No partial state was persisted.
	ErrAggregationConflict = errors.New("rating aggregation conflict")
)

// applyRetries is the transaction retry budget for serialization failures.
const applyRetries = 3

// AlbumMeta carries caller-supplied display metadata for an album. Zero-value
// fields leave the stored metadata untouched (last-writer-wins merge), so a
// score-only update never wipes name or artwork.
type AlbumMeta struct {
	Name        string
	Image       string
	ReleaseDate string
	Artists     []string
	Genres      []string
}

type AlbumRepository interface {
	// ApplyRatingChange atomically moves the album aggregate from its current
	// state to the state after userID's rating becomes newRating (nil = remove).
	// The user's previous rating is read inside the same transaction, so the
	// delta is always computed against committed state. Returns the updated
	// aggregate.
	ApplyRatingChange(ctx context.Context, albumID, userID string, newRating *float64, meta AlbumMeta) (*models.Album, error)
	GetByID(ctx context.Context, albumID string) (*models.Album, error)
	// ListRanked returns aggregates eligible for the public board, ordered by
	// average score descending.
	ListRanked(ctx context.Context, minRatings, limit int) ([]models.Album, error)
	// ListAll returns every aggregate, for global rank lookups.
	ListAll(ctx context.Context) ([]models.Album, error)
	ListMissingGenres(ctx context.Context, limit int) ([]models.Album, error)
	UpdateGenres(ctx context.Context, albumID string, genres []string) error
}

type albumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) ApplyRatingChange(ctx context.Context, albumID, userID string, newRating *float64, meta AlbumMeta) (*models.Album, error) {
	var updated *models.Album
	var err error

	// Postgres may abort the transaction on deadlock or serialization failure
	// when several raters hit the same album; re-run against freshly read state.
	for attempt := 0; attempt < applyRetries; attempt++ {
		updated, err = r.applyOnce(ctx, albumID, userID, newRating, meta)
		if err == nil {
			return updated, nil
		}
		if !isRetryableTxError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAggregationConflict, err)
}

func (r *albumRepository) applyOnce(ctx context.Context, albumID, userID string, newRating *float64, meta AlbumMeta) (*models.Album, error) {
	var result models.Album

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var album models.Album
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&album, "id = ?", albumID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if newRating == nil {
				// removing a rating that was never stored; don't
				// materialize an empty aggregate as a side effect
				result = models.Album{ID: albumID}
				return nil
			}
			// first rating for this album creates the aggregate lazily,
			// backfilled from caller metadata
			album = models.Album{ID: albumID}
			mergeMeta(&album, meta)
			if err := tx.Create(&album).Error; err != nil {
				return fmt.Errorf("create aggregate: %w", err)
			}
			// re-acquire under lock so concurrent first raters serialize
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&album, "id = ?", albumID).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		// the user's previously committed rating, nil if none
		var oldRating *float64
		var existing models.Rating
		err = tx.Where("user_id = ? AND album_id = ?", userID, albumID).First(&existing).Error
		switch {
		case err == nil:
			oldRating = &existing.Rating
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no previous rating
		default:
			return err
		}

		next := ranking.ApplyRatingChange(ranking.Aggregate{
			TotalScore:      album.TotalScore,
			NumberOfRatings: album.NumberOfRatings,
			AverageScore:    album.AverageScore,
		}, oldRating, newRating)

		album.TotalScore = next.TotalScore
		album.NumberOfRatings = next.NumberOfRatings
		album.AverageScore = next.AverageScore
		mergeMeta(&album, meta)

		if err := tx.Save(&album).Error; err != nil {
			return fmt.Errorf("save aggregate: %w", err)
		}

		// keep the per-user rating row in the same atomic unit
		if newRating != nil {
			entry := models.Rating{UserID: userID, AlbumID: albumID, Rating: *newRating}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "album_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
			}).Create(&entry).Error; err != nil {
				return fmt.Errorf("upsert rating: %w", err)
			}
		} else if oldRating != nil {
			if err := tx.Where("user_id = ? AND album_id = ?", userID, albumID).
				Delete(&models.Rating{}).Error; err != nil {
				return fmt.Errorf("delete rating: %w", err)
			}
		}

		result = album
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// mergeMeta overwrites display fields only when the caller supplied fresher
// values. Stored metadata survives pure score updates.
func mergeMeta(album *models.Album, meta AlbumMeta) {
	if meta.Name != "" {
		album.Name = meta.Name
	}
	if meta.Image != "" {
		album.Image = meta.Image
	}
	if meta.ReleaseDate != "" {
		album.ReleaseDate = meta.ReleaseDate
	}
	if len(meta.Artists) > 0 {
		album.Artists = meta.Artists
	}
	if len(meta.Genres) > 0 {
		album.Genres = meta.Genres
	}
}

// isRetryableTxError reports whether the transaction failed in a way a re-read
// and re-apply can fix: serialization failure (40001), deadlock (40P01), or a
// unique violation (23505) from two first raters racing the aggregate insert.
// The retry then finds the committed row and takes the locked-read path.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "23505"
	}
	return false
}

func (r *albumRepository) GetByID(ctx context.Context, albumID string) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).First(&album, "id = ?", albumID).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepository) ListRanked(ctx context.Context, minRatings, limit int) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Where("number_of_ratings >= ?", minRatings).
		Order("average_score DESC").
		Order("number_of_ratings DESC").
		Order("id ASC").
		Limit(limit).
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("list ranked albums: %w", err)
	}
	return albums, nil
}

func (r *albumRepository) ListAll(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := r.db.WithContext(ctx).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

func (r *albumRepository) ListMissingGenres(ctx context.Context, limit int) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Where("genres IS NULL OR genres = '' OR genres = '[]'").
		Limit(limit).
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("list albums missing genres: %w", err)
	}
	return albums, nil
}

func (r *albumRepository) UpdateGenres(ctx context.Context, albumID string, genres []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Album{}).
		Where("id = ?", albumID).
		Update("genres", models.StringList(genres)).Error
}
