package dto

import (
	"fmt"
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
)

type SlotDto struct {
	ID        int64           `json:"id"`
	TableID   int64           `json:"tableId"`
	Time      time.Time       `json:"time"`
	GamePpp   int             `json:"gamePpp"`
	HeadCount int             `json:"headCount"`
	Type      models.GameType `json:"type"`
}

// SlotDtoFrom converts a slot entity into its transfer shape.
func SlotDtoFrom(slot *models.Slot) SlotDto {
	return SlotDto{
		ID:        slot.ID,
		TableID:   slot.TableID,
		Time:      slot.Time,
		GamePpp:   slot.GamePpp,
		HeadCount: slot.HeadCount,
		Type:      slot.Type,
	}
}

func (s SlotDto) String() string {
	return fmt.Sprintf("SlotDto{id=%d, tableId=%d, time=%s, gamePpp=%d, headCount=%d, type=%s}",
		s.ID, s.TableID, s.Time.Format(time.RFC3339), s.GamePpp, s.HeadCount, s.Type)
}
