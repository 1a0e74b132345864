package models

import (
	"encoding/json"
	"time"
)

// NoteStatus is the lifecycle state of a note
type NoteStatus string

const (
	NoteStatusDraft NoteStatus = "draft"
	NoteStatusSaved NoteStatus = "saved"
)

// Note is a personal note owned by a single user
type Note struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	Status    NoteStatus `json:"status" db:"status"`
	Favorite  bool       `json:"favorite" db:"favorite"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// MarshalJSON writes the id under both "id" and "_id"; the web client keys notes by "_id".
func (n Note) MarshalJSON() ([]byte, error) {
	type note Note
	return json.Marshal(struct {
		LegacyID string `json:"_id"`
		note
	}{
		LegacyID: n.ID,
		note:     note(n),
	})
}

// NoteRequest is the body of create and update calls
type NoteRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Status   NoteStatus `json:"status"`
	Favorite *bool      `json:"favorite,omitempty"`
}

// NoteStatusRequest changes only the status of a note
type NoteStatusRequest struct {
	Status NoteStatus `json:"status"`
}

// FavoriteResponse is returned after toggling the favorite flag
type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}
