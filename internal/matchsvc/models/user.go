package models

import (
	"time"
)

// User represents the users table in the database.
type User struct {
	ID        int64     `json:"id"`
	IntraID   string    `json:"intra_id"`
	Email     string    `json:"email,omitempty"`
	ImageURI  string    `json:"image_uri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
