package models

import "time"

// SlotTeamUser links a user to a team inside a slot.
type SlotTeamUser struct {
	ID        int64     `json:"id"`      // Primary key
	SlotID    int64     `json:"slot_id"` // FK to slots(id)
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"` // FK to users(id)
	CreatedAt time.Time `json:"created_at"`
}
