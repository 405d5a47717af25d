package models

import "time"

// CurrentMatch is the live assignment of one user to one slot.
type CurrentMatch struct {
	ID            int64     `json:"id"`      // Primary key
	UserID        int64     `json:"user_id"` // FK to users(id), unique
	SlotID        int64     `json:"slot_id"` // FK to slots(id)
	GameID        *int64    `json:"game_id"` // FK to games(id), nil until a game is attached
	MatchImminent bool      `json:"match_imminent"`
	IsMatched     bool      `json:"is_matched"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with cm.
func (cm *CurrentMatch) Clone() *CurrentMatch {
	c := *cm
	if cm.GameID != nil {
		id := *cm.GameID
		c.GameID = &id
	}
	return &c
}
