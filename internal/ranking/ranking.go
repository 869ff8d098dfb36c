package ranking

import (
	"sort"
	"strings"

	"albumrank/internal/microservices/http-api/models"
)

const (
	DefaultMinRatings = 3
	DefaultLimit      = 100
)

// Options controls how a ranking is built.
type Options struct {
	MinRatings int // albums with fewer ratings are excluded (default 3)
	Limit      int // maximum number of entries returned (default 100)
}

// RankedAlbum pairs an album aggregate with its 1-indexed position.
type RankedAlbum struct {
	Album models.Album `json:"album"`
	Rank  int          `json:"rank"`
}

// sortAggregates orders albums by average score descending. Exact score ties go
// to the album with more ratings (more samples, more confidence); remaining ties
// break on album ID so the order is fully deterministic.
func sortAggregates(albums []models.Album) []models.Album {
	sorted := make([]models.Album, len(albums))
	copy(sorted, albums)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AverageScore != sorted[j].AverageScore {
			return sorted[i].AverageScore > sorted[j].AverageScore
		}
		if sorted[i].NumberOfRatings != sorted[j].NumberOfRatings {
			return sorted[i].NumberOfRatings > sorted[j].NumberOfRatings
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// BuildRanking turns a snapshot of album aggregates into an ordered ranking.
// Albums below the minimum sample size are dropped first so single-rating
// outliers never dominate the board. The ranking is recomputed in full on every
// call; the aggregate set is bounded by the number of distinct albums rated.
func BuildRanking(albums []models.Album, opts Options) []RankedAlbum {
	if opts.MinRatings <= 0 {
		opts.MinRatings = DefaultMinRatings
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	eligible := make([]models.Album, 0, len(albums))
	for _, a := range albums {
		if a.NumberOfRatings >= opts.MinRatings {
			eligible = append(eligible, a)
		}
	}

	sorted := sortAggregates(eligible)
	if len(sorted) > opts.Limit {
		sorted = sorted[:opts.Limit]
	}

	ranked := make([]RankedAlbum, len(sorted))
	for i, a := range sorted {
		ranked[i] = RankedAlbum{Album: a, Rank: i + 1}
	}
	return ranked
}

// ClassifyByCategory splits albums into those whose genre tags match the
// category and the rest. A tag matches when any reference genre appears in it
// as a case-insensitive substring ("east coast hip hop" matches "hip hop").
// Order is preserved within both partitions.
func ClassifyByCategory(albums []models.Album, categoryGenres []string) (matching, rest []models.Album) {
	lowered := make([]string, len(categoryGenres))
	for i, g := range categoryGenres {
		lowered[i] = strings.ToLower(g)
	}

	for _, a := range albums {
		if albumMatchesCategory(a, lowered) {
			matching = append(matching, a)
		} else {
			rest = append(rest, a)
		}
	}
	return matching, rest
}

func albumMatchesCategory(a models.Album, loweredGenres []string) bool {
	for _, tag := range a.Genres {
		tag = strings.ToLower(tag)
		for _, ref := range loweredGenres {
			if strings.Contains(tag, ref) {
				return true
			}
		}
	}
	return false
}

// AlbumRank is the position of one album within the full global ordering.
type AlbumRank struct {
	Rank         int     `json:"rank"`
	Total        int     `json:"total"`
	AverageScore float64 `json:"average_score"`
}

// RankOf locates an album in the globally sorted list. Unlike BuildRanking no
// minimum-sample-size filter applies: the detail view shows a position for any
// rated album. The second return is false when the album is not in the set.
func RankOf(albumID string, albums []models.Album) (AlbumRank, bool) {
	sorted := sortAggregates(albums)
	for i, a := range sorted {
		if a.ID == albumID {
			return AlbumRank{
				Rank:         i + 1,
				Total:        len(sorted),
				AverageScore: a.AverageScore,
			}, true
		}
	}
	return AlbumRank{}, false
}
