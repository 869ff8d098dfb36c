package service

import (
	"context"
	"testing"

	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/ranking"

	"github.com/stretchr/testify/assert"
)

func TestGetRankings_GlobalBoard(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	albums := []models.Album{
		{ID: "a1", AverageScore: 9.2, NumberOfRatings: 10},
		{ID: "a2", AverageScore: 8.1, NumberOfRatings: 4},
	}
	mockAlbumRepo.On("ListRanked", 3, 100).Return(albums, nil)

	ranked, err := rankingService.GetRankings(context.Background(), ranking.Options{MinRatings: 3, Limit: 100}, "")

	assert.NoError(t, err)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "a1", ranked[0].Album.ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	mockAlbumRepo.AssertExpectations(t)
}

func TestGetRankings_ZeroOptionsUseDefaults(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	mockAlbumRepo.On("ListRanked", ranking.DefaultMinRatings, ranking.DefaultLimit).
		Return([]models.Album{}, nil)

	ranked, err := rankingService.GetRankings(context.Background(), ranking.Options{}, "")

	assert.NoError(t, err)
	assert.Empty(t, ranked)
	mockAlbumRepo.AssertExpectations(t)
}

func TestGetRankings_CategoryFiltersByGenre(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	albums := []models.Album{
		{ID: "rock-1", AverageScore: 9.5, NumberOfRatings: 20, Genres: []string{"alternative rock"}},
		{ID: "rap-1", AverageScore: 9.0, NumberOfRatings: 15, Genres: []string{"East Coast Hip Hop"}},
		{ID: "rap-2", AverageScore: 8.2, NumberOfRatings: 6, Genres: []string{"uk drill"}},
	}
	// the category path loads the whole eligible set, limit -1
	mockAlbumRepo.On("ListRanked", 3, -1).Return(albums, nil)

	ranked, err := rankingService.GetRankings(context.Background(), ranking.Options{MinRatings: 3, Limit: 100}, "rap")

	assert.NoError(t, err)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "rap-1", ranked[0].Album.ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "rap-2", ranked[1].Album.ID)
	assert.Equal(t, 2, ranked[1].Rank)
	mockAlbumRepo.AssertExpectations(t)
}

func TestGetRankings_UnknownCategory(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	ranked, err := rankingService.GetRankings(context.Background(), ranking.Options{MinRatings: 3, Limit: 100}, "polka")

	assert.Error(t, err)
	assert.Equal(t, ErrUnknownCategory, err)
	assert.Nil(t, ranked)
	mockAlbumRepo.AssertNotCalled(t, "ListRanked")
}

func TestGetAlbumRank_IgnoresMinRatingsFloor(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	albums := []models.Album{
		{ID: "a1", AverageScore: 9.2, NumberOfRatings: 10},
		{ID: "a2", AverageScore: 8.1, NumberOfRatings: 1}, // below the public floor
		{ID: "a3", AverageScore: 7.0, NumberOfRatings: 5},
	}
	mockAlbumRepo.On("ListAll").Return(albums, nil)

	rank, err := rankingService.GetAlbumRank(context.Background(), "a2")

	assert.NoError(t, err)
	assert.Equal(t, 2, rank.Rank)
	assert.Equal(t, 3, rank.Total)
	assert.Equal(t, 8.1, rank.AverageScore)
	mockAlbumRepo.AssertExpectations(t)
}

func TestGetAlbumRank_NotFound(t *testing.T) {
	mockAlbumRepo := new(MockAlbumRepository)
	rankingService := NewRankingService(mockAlbumRepo)

	mockAlbumRepo.On("ListAll").Return([]models.Album{}, nil)

	rank, err := rankingService.GetAlbumRank(context.Background(), "missing")

	assert.Error(t, err)
	assert.Equal(t, ErrAlbumNotFound, err)
	assert.Nil(t, rank)
	mockAlbumRepo.AssertExpectations(t)
}
