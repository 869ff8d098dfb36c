package service

import (
	"context"
	"errors"
	"log/slog"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/microservices/http-api/repository"
)

var (
	ErrAlreadyListed = errors.New("album already on list")
	ErrNotOwner      = errors.New("not the owner of this list")
)

type ListService interface {
	// AddToList puts an album on the user's list with no score yet.
	AddToList(ctx context.Context, userID string, req dto.AddToListRequest) (*models.ListEntry, error)
	// SetScore changes the score of a listed album and pushes the delta into
	// the shared aggregate. score == nil sets the entry back to unrated.
	SetScore(ctx context.Context, userID, albumID string, score *float64) (*models.ListEntry, error)
	// RemoveFromList clears any rating the entry carried, then deletes it.
	RemoveFromList(ctx context.Context, userID, albumID string) error
	GetList(ctx context.Context, userID string) ([]models.ListEntry, error)
}

type listService struct {
	listRepo      repository.ListRepository
	ratingService RatingService
	logger        *slog.Logger
}

func NewListService(listRepo repository.ListRepository, ratingService RatingService, logger *slog.Logger) ListService {
	return &listService{
		listRepo:      listRepo,
		ratingService: ratingService,
		logger:        logger,
	}
}

func (s *listService) AddToList(ctx context.Context, userID string, req dto.AddToListRequest) (*models.ListEntry, error) {
	exists, err := s.listRepo.Exists(ctx, userID, req.AlbumID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyListed
	}

	entry := &models.ListEntry{
		UserID:      userID,
		AlbumID:     req.AlbumID,
		Name:        req.Name,
		Image:       req.Image,
		ReleaseDate: req.ReleaseDate,
		Artists:     req.Artists,
	}
	if err := s.listRepo.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *listService) SetScore(ctx context.Context, userID, albumID string, score *float64) (*models.ListEntry, error) {
	entry, err := s.listRepo.GetByUserAndAlbum(ctx, userID, albumID)
	if err != nil {
		return nil, err
	}

	// the aggregate transaction reads the committed old rating itself; the
	// list entry only supplies display metadata for a lazily created aggregate
	meta := repository.AlbumMeta{
		Name:        entry.Name,
		Image:       entry.Image,
		ReleaseDate: entry.ReleaseDate,
		Artists:     entry.Artists,
	}
	if _, err := s.ratingService.Rate(ctx, userID, albumID, score, meta); err != nil {
		return nil, err
	}

	if err := s.listRepo.UpdateScore(ctx, userID, albumID, score); err != nil {
		return nil, err
	}

	entry.Score = score
	return entry, nil
}

func (s *listService) RemoveFromList(ctx context.Context, userID, albumID string) error {
	entry, err := s.listRepo.GetByUserAndAlbum(ctx, userID, albumID)
	if err != nil {
		if errors.Is(err, repository.ErrListEntryNotFound) {
			// already gone, nothing to undo
			return nil
		}
		return err
	}

	// retract the rating from the shared aggregate before the entry disappears
	if entry.Score != nil {
		if _, err := s.ratingService.DeleteRating(ctx, userID, albumID); err != nil {
			return err
		}
	}

	if err := s.listRepo.Remove(ctx, userID, albumID); err != nil {
		if errors.Is(err, repository.ErrListEntryNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *listService) GetList(ctx context.Context, userID string) ([]models.ListEntry, error) {
	return s.listRepo.List(ctx, userID)
}
