package service

import (
	"context"
	"errors"
	"log/slog"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/notify"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrAlbumNotFound  = errors.New("album not found")
)

type RatingService interface {
	// Rate creates or updates the user's rating for an album; rating == nil
	// removes it. One call, one atomic aggregate transaction.
	Rate(ctx context.Context, userID, albumID string, rating *float64, meta repository.AlbumMeta) (*models.Album, error)
	DeleteRating(ctx context.Context, userID, albumID string) (*models.Album, error)
	GetUserRating(userID, albumID string) (*dto.UserRatingResponse, error)
	GetAlbumRatings(albumID string, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	GetAlbumAverage(ctx context.Context, albumID string) (*models.Album, error)
}

type ratingService struct {
	albumRepo  repository.AlbumRepository
	ratingRepo repository.RatingRepository
	notifier   notify.RankingNotifier
	logger     *slog.Logger
}

func NewRatingService(
	albumRepo repository.AlbumRepository,
	ratingRepo repository.RatingRepository,
	notifier notify.RankingNotifier,
	logger *slog.Logger,
) RatingService {
	return &ratingService{
		albumRepo:  albumRepo,
		ratingRepo: ratingRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *ratingService) Rate(ctx context.Context, userID, albumID string, rating *float64, meta repository.AlbumMeta) (*models.Album, error) {
	album, err := s.albumRepo.ApplyRatingChange(ctx, albumID, userID, rating, meta)
	if err != nil {
		return nil, err
	}

	// notify after commit; ranking views recompute from the stored snapshot,
	// so a lost notification is only a delayed refresh
	if s.notifier != nil {
		if err := s.notifier.PublishAlbumChanged(ctx, albumID); err != nil {
			s.logger.Warn("failed to publish ranking change", "album_id", albumID, "error", err)
		}
	}

	return album, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, userID, albumID string) (*models.Album, error) {
	return s.Rate(ctx, userID, albumID, nil, repository.AlbumMeta{})
}

func (s *ratingService) GetUserRating(userID, albumID string) (*dto.UserRatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndAlbum(userID, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	return &dto.UserRatingResponse{
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}, nil
}

func (s *ratingService) GetAlbumRatings(albumID string, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	ratings, total, err := s.ratingRepo.GetByAlbum(albumID, page, pageSize)
	if err != nil {
		return nil, err
	}

	ratingResponses := make([]dto.RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		ratingResponses = append(ratingResponses, *dto.FromModelToRatingResponse(&rating))
	}

	return dto.NewPaginatedRatingResponse(ratingResponses, int(total), page, pageSize), nil
}

func (s *ratingService) GetAlbumAverage(ctx context.Context, albumID string) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return album, nil
}
