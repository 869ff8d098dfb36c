package models

import "time"

// ListEntry is one album on a user's personal list. Score is nil while the user
// has the album listed but unrated ("-" in the dropdown). Display fields are
// denormalized from the catalog so the list renders without extra lookups.
// List membership and "has rated" are separate facts: a rating can exist without
// a list entry and vice versa.
type ListEntry struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex:idx_list_user_album" json:"user_id"`
	AlbumID     string     `gorm:"size:64;not null;uniqueIndex:idx_list_user_album" json:"album_id"`
	Score       *float64   `json:"score,omitempty"`
	Name        string     `gorm:"not null" json:"name"`
	Image       string     `json:"image"`
	ReleaseDate string     `json:"release_date"`
	Artists     StringList `gorm:"type:text" json:"artists"`
	AddedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ListEntry) TableName() string {
	return "list_entries"
}
