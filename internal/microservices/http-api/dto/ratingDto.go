package dto

import (
	"time"

	"albumrank/internal/microservices/http-api/models"
)

// CreateRatingDTO for creating or updating a rating. Album metadata rides along
// so a first-ever rating can create the aggregate with display fields intact.
type CreateRatingDTO struct {
	Rating      float64  `json:"rating" binding:"min=0,max=10"`
	Name        string   `json:"name,omitempty"`
	Image       string   `json:"image,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Artists     []string `json:"artists,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// RatingResponse for returning rating information (for list view - without IDs)
type RatingResponse struct {
	Username  string    `json:"username"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		Username:  rating.User.Username,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// UserRatingResponse for returning user's own rating
type UserRatingResponse struct {
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlbumAverageResponse for the public aggregate view of one album
type AlbumAverageResponse struct {
	AlbumID         string  `json:"album_id"`
	AverageScore    float64 `json:"average_score"`
	TotalScore      float64 `json:"total_score"`
	NumberOfRatings int     `json:"number_of_ratings"`
}

// FromModelToAlbumAverageResponse converts an Album aggregate to its public view
func FromModelToAlbumAverageResponse(album *models.Album) *AlbumAverageResponse {
	return &AlbumAverageResponse{
		AlbumID:         album.ID,
		AverageScore:    album.AverageScore,
		TotalScore:      album.TotalScore,
		NumberOfRatings: album.NumberOfRatings,
	}
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data       []RatingResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedRatingResponse creates a paginated rating response
func NewPaginatedRatingResponse(data []RatingResponse, total, page, pageSize int) *PaginatedRatingResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedRatingResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
