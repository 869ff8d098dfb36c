package models

import "time"

// Rating is one user's current score for an album. The row exists only while the
// user has a rating; clearing a rating deletes the row. Writes happen inside the
// same transaction that updates the album aggregate.
type Rating struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	AlbumID   string    `json:"album_id" gorm:"size:64;primaryKey"`
	Rating    float64   `json:"rating" gorm:"not null;check:rating >= 0 AND rating <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Album Album `json:"album,omitempty" gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
