package dto

import (
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
)

type GameDto struct {
	ID     int64             `json:"id"`
	SlotID int64             `json:"slotId"`
	Type   models.GameType   `json:"type"`
	Time   time.Time         `json:"time"`
	Status models.GameStatus `json:"status"`
}

func GameDtoFrom(game *models.Game) *GameDto {
	if game == nil {
		return nil
	}
	return &GameDto{
		ID:     game.ID,
		SlotID: game.SlotID,
		Type:   game.Type,
		Time:   game.Time,
		Status: game.Status,
	}
}
