package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumrank/internal/microservices/http-api/models"
)

func album(id string, avg float64, count int, genres ...string) models.Album {
	return models.Album{
		ID:              id,
		Name:            "Album " + id,
		AverageScore:    avg,
		NumberOfRatings: count,
		TotalScore:      avg * float64(count),
		Genres:          genres,
	}
}

func TestBuildRanking_MinimumSampleSizeFloor(t *testing.T) {
	albums := []models.Album{
		album("a", 10, 2), // perfect score, too few ratings
		album("b", 7, 5),
		album("c", 6, 3),
	}

	ranked := BuildRanking(albums, Options{})

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Album.ID)
	assert.Equal(t, "c", ranked[1].Album.ID)
}

func TestBuildRanking_OrderAndRankAssignment(t *testing.T) {
	albums := []models.Album{
		album("low", 5.5, 4),
		album("top", 9.1, 6),
		album("mid", 7.0, 10),
	}

	ranked := BuildRanking(albums, Options{})

	require.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, "top", ranked[0].Album.ID)
	assert.Equal(t, "mid", ranked[1].Album.ID)
	assert.Equal(t, "low", ranked[2].Album.ID)
}

func TestBuildRanking_TieBreakFavorsMoreRatings(t *testing.T) {
	albums := []models.Album{
		album("few", 7.5, 4),
		album("many", 7.5, 10),
	}

	ranked := BuildRanking(albums, Options{})

	require.Len(t, ranked, 2)
	assert.Equal(t, "many", ranked[0].Album.ID)
	assert.Equal(t, "few", ranked[1].Album.ID)
}

func TestBuildRanking_Limit(t *testing.T) {
	var albums []models.Album
	for i := 0; i < 10; i++ {
		albums = append(albums, album(string(rune('a'+i)), float64(i), 5))
	}

	ranked := BuildRanking(albums, Options{Limit: 3})

	require.Len(t, ranked, 3)
	assert.Equal(t, "j", ranked[0].Album.ID)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestBuildRanking_CustomMinRatings(t *testing.T) {
	albums := []models.Album{
		album("a", 8, 1),
		album("b", 7, 2),
	}

	ranked := BuildRanking(albums, Options{MinRatings: 1})
	assert.Len(t, ranked, 2)
}

func TestClassifyByCategory(t *testing.T) {
	albums := []models.Album{
		album("a", 8, 5, "east coast hip hop"),
		album("b", 7, 5, "indie rock"),
		album("c", 6, 5, "Rap", "jazz"),
		album("d", 5, 5),
	}

	matching, rest := ClassifyByCategory(albums, []string{"hip hop", "rap"})

	require.Len(t, matching, 2)
	assert.Equal(t, "a", matching[0].ID)
	assert.Equal(t, "c", matching[1].ID)

	require.Len(t, rest, 2)
	assert.Equal(t, "b", rest[0].ID)
	assert.Equal(t, "d", rest[1].ID)
}

func TestRankOf_IgnoresSampleFloor(t *testing.T) {
	albums := []models.Album{
		album("a", 9, 1), // would be excluded from the board
		album("b", 8, 5),
		album("c", 7, 5),
	}

	rank, ok := RankOf("a", albums)
	require.True(t, ok)
	assert.Equal(t, 1, rank.Rank)
	assert.Equal(t, 3, rank.Total)
	assert.Equal(t, float64(9), rank.AverageScore)

	rank, ok = RankOf("c", albums)
	require.True(t, ok)
	assert.Equal(t, 3, rank.Rank)
}

func TestRankOf_Missing(t *testing.T) {
	_, ok := RankOf("nope", []models.Album{album("a", 5, 2)})
	assert.False(t, ok)
}

func TestBuildRanking_DoesNotMutateInput(t *testing.T) {
	albums := []models.Album{
		album("z", 5, 5),
		album("a", 9, 5),
	}

	_ = BuildRanking(albums, Options{})
	assert.Equal(t, "z", albums[0].ID)
}
