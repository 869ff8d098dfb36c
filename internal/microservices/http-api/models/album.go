package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a slice of strings as a JSON text column.
// GORM has no portable array type, so artist and genre tags go through this.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Album is the shared per-album aggregate, keyed by the external catalog album ID.
// TotalScore and NumberOfRatings are an incremental rollup of the ratings table;
// AverageScore is always recomputed from them at write time, never stored on its own.
// Mutations must go through AlbumRepository.ApplyRatingChange so concurrent raters
// never lose an update.
type Album struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64"`
	Name        string     `json:"name" gorm:"not null"`
	Image       string     `json:"image"`
	ReleaseDate string     `json:"release_date"`
	Artists     StringList `json:"artists" gorm:"type:text"`
	Genres      StringList `json:"genres" gorm:"type:text"`

	TotalScore      float64 `json:"total_score" gorm:"not null;default:0"`
	NumberOfRatings int     `json:"number_of_ratings" gorm:"not null;default:0;index"`
	AverageScore    float64 `json:"average_score" gorm:"not null;default:0;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Album) TableName() string {
	return "albums"
}
