package service

import (
	"context"
	"errors"
	"strings"

	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/ranking"
)

var ErrUnknownCategory = errors.New("unknown ranking category")

// categoryGenres maps a category slug to the reference genre set used for
// classification. Matching is case-insensitive substring on the album's tags.
var categoryGenres = map[string][]string{
	"rap": {"hip hop", "hip-hop", "rap", "drill", "grime", "trap"},
}

type RankingService interface {
	// GetRankings builds the sample-size-filtered board, optionally restricted
	// to one category. Empty category means the global board.
	GetRankings(ctx context.Context, opts ranking.Options, category string) ([]ranking.RankedAlbum, error)
	// GetAlbumRank locates one album in the unfiltered global ordering.
	GetAlbumRank(ctx context.Context, albumID string) (*ranking.AlbumRank, error)
}

type rankingService struct {
	albumRepo repository.AlbumRepository
}

func NewRankingService(albumRepo repository.AlbumRepository) RankingService {
	return &rankingService{albumRepo: albumRepo}
}

func (s *rankingService) GetRankings(ctx context.Context, opts ranking.Options, category string) ([]ranking.RankedAlbum, error) {
	if opts.MinRatings <= 0 {
		opts.MinRatings = ranking.DefaultMinRatings
	}
	if opts.Limit <= 0 {
		opts.Limit = ranking.DefaultLimit
	}

	var genres []string
	if category != "" {
		var ok bool
		genres, ok = categoryGenres[strings.ToLower(category)]
		if !ok {
			return nil, ErrUnknownCategory
		}
	}

	// when a category filter applies, the database limit must not cut eligible
	// albums before classification, so load the full eligible set
	limit := opts.Limit
	if category != "" {
		limit = -1
	}

	albums, err := s.albumRepo.ListRanked(ctx, opts.MinRatings, limit)
	if err != nil {
		return nil, err
	}

	if category != "" {
		albums, _ = ranking.ClassifyByCategory(albums, genres)
	}

	return ranking.BuildRanking(albums, opts), nil
}

func (s *rankingService) GetAlbumRank(ctx context.Context, albumID string) (*ranking.AlbumRank, error) {
	albums, err := s.albumRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rank, ok := ranking.RankOf(albumID, albums)
	if !ok {
		return nil, ErrAlbumNotFound
	}
	return &rank, nil
}
