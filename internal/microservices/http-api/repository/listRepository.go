package repository

import (
	"context"
	"errors"
	"fmt"

	"albumrank/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var ErrListEntryNotFound = errors.New("album not found in list")

type ListRepository interface {
	Add(ctx context.Context, entry *models.ListEntry) error
	Remove(ctx context.Context, userID, albumID string) error
	List(ctx context.Context, userID string) ([]models.ListEntry, error)
	GetByUserAndAlbum(ctx context.Context, userID, albumID string) (*models.ListEntry, error)
	UpdateScore(ctx context.Context, userID, albumID string, score *float64) error
	Exists(ctx context.Context, userID, albumID string) (bool, error)
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Add(ctx context.Context, entry *models.ListEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("add to list: %w", err)
	}
	return nil
}

func (r *listRepository) Remove(ctx context.Context, userID, albumID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Delete(&models.ListEntry{})

	if result.Error != nil {
		return fmt.Errorf("remove from list: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrListEntryNotFound
	}

	return nil
}

func (r *listRepository) List(ctx context.Context, userID string) ([]models.ListEntry, error) {
	var entries []models.ListEntry

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

func (r *listRepository) GetByUserAndAlbum(ctx context.Context, userID, albumID string) (*models.ListEntry, error) {
	var entry models.ListEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *listRepository) UpdateScore(ctx context.Context, userID, albumID string, score *float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ListEntry{}).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Update("score", score)

	if result.Error != nil {
		return fmt.Errorf("update score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListEntryNotFound
	}
	return nil
}

func (r *listRepository) Exists(ctx context.Context, userID, albumID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ListEntry{}).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
