package dto

// AddToListRequest: payload for putting an album on the caller's list
type AddToListRequest struct {
	AlbumID     string   `json:"album_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Image       string   `json:"image"`
	ReleaseDate string   `json:"release_date"`
	Artists     []string `json:"artists"`
}

// SetScoreRequest: payload for scoring a listed album. A null score puts the
// entry back to unrated and retracts the rating from the shared aggregate.
type SetScoreRequest struct {
	Score *float64 `json:"score" binding:"omitempty,min=0,max=10"`
}
