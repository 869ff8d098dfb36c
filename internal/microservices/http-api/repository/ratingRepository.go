package repository

import (
	"albumrank/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RatingRepository is read-only. Rating rows are only ever written inside
// AlbumRepository.ApplyRatingChange so the aggregate rollup can never drift
// from the entries it summarizes.
type RatingRepository interface {
	GetByUserAndAlbum(userID, albumID string) (*models.Rating, error)
	GetByAlbum(albumID string, page, pageSize int) ([]models.Rating, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// GetByUserAndAlbum retrieves a user's rating for a specific album
func (r *ratingRepository) GetByUserAndAlbum(userID, albumID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("user_id = ? AND album_id = ?", userID, albumID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByAlbum retrieves all ratings for a specific album with pagination
func (r *ratingRepository) GetByAlbum(albumID string, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.Model(&models.Rating{}).Where("album_id = ?", albumID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("album_id = ?", albumID).
		Preload("User").
		Order("updated_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error

	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}
