package models

import "time"

type Slot struct {
	ID        int64     `json:"id"`         // Primary key
	TableID   int64     `json:"table_id"`   // Physical table the slot is booked on
	Time      time.Time `json:"time"`       // Start time of the slot
	GamePpp   int       `json:"game_ppp"`   // Average ppp of the players in the slot
	HeadCount int       `json:"head_count"` // Players currently registered
	Type      GameType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
