package dto

import "albumrank/internal/ranking"

// RankingResponse wraps one board of ranked albums
type RankingResponse struct {
	Category   string                `json:"category,omitempty"`
	MinRatings int                   `json:"min_ratings"`
	Rankings   []ranking.RankedAlbum `json:"rankings"`
}

// AlbumRankResponse: one album's position in the global ordering
type AlbumRankResponse struct {
	AlbumID      string  `json:"album_id"`
	Rank         int     `json:"rank"`
	Total        int     `json:"total"`
	AverageScore float64 `json:"average_score"`
}
