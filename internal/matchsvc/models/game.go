package models

import (
	"time"
)

type GameStatus string

const (
	GameStatusWait GameStatus = "WAIT"
	GameStatusLive GameStatus = "LIVE"
	GameStatusEnd  GameStatus = "END"
)

type Game struct {
	ID        int64      `json:"id"`      // Primary key
	SlotID    int64      `json:"slot_id"` // Foreign key to slots
	Type      GameType   `json:"type"`
	Time      time.Time  `json:"time"`
	Status    GameStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"` // Timestamp
	UpdatedAt time.Time  `json:"updated_at"` // Timestamp
}
