package models

import (
	"time"
)

// Course is a piece of learning material attached to a group. FilePath is
// an opaque object-storage key, not a filesystem path.
type Course struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"group_id" db:"group_id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	FilePath  string    `json:"file_path" db:"file_path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
