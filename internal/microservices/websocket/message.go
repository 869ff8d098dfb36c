package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"albumrank/internal/ranking"
)

// Message protocol definitions

type MessageType string

const (
	TypeSnapshot MessageType = "snapshot" // full ranking list after a change
	TypeSystem   MessageType = "system"   // system message
)

// Message structure for WebSocket communication
type Message struct {
	Type      MessageType           `json:"type"`
	AlbumID   string                `json:"album_id,omitempty"` // album whose rating changed, empty for the initial snapshot
	Rankings  []ranking.RankedAlbum `json:"rankings,omitempty"`
	Content   string                `json:"content,omitempty"`
	Timestamp time.Time             `json:"timestamp"` // time in UTC format
}

// NewSnapshotMessage builds a ranking snapshot triggered by a change to albumID
func NewSnapshotMessage(albumID string, rankings []ranking.RankedAlbum) *Message {
	return &Message{
		Type:      TypeSnapshot,
		AlbumID:   albumID,
		Rankings:  rankings,
		Timestamp: time.Now().UTC(),
	}
}

func NewSystemMessage(content string) *Message {
	return &Message{
		Type:      TypeSystem,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}
