package models

import (
	"time"
)

type Subject struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
