package dto

import "github.com/avvvet/arcade-services/internal/matchsvc/models"

// CurrentMatchDto is the external shape of a current match, with its slot
// and game resolved.
type CurrentMatchDto struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"userId"`
	Slot          SlotDto  `json:"slot"`
	Game          *GameDto `json:"game"`
	MatchImminent bool     `json:"matchImminent"`
	IsMatched     bool     `json:"isMatched"`
}

func CurrentMatchDtoFrom(cm *models.CurrentMatch, slot *models.Slot, game *models.Game) CurrentMatchDto {
	return CurrentMatchDto{
		ID:            cm.ID,
		UserID:        cm.UserID,
		Slot:          SlotDtoFrom(slot),
		Game:          GameDtoFrom(game),
		MatchImminent: cm.MatchImminent,
		IsMatched:     cm.IsMatched,
	}
}

type CurrentMatchAddDto struct {
	UserID int64    `json:"userId"`
	Slot   *SlotDto `json:"slot"`
}

type CurrentMatchModifyDto struct {
	SlotID        int64 `json:"slotId"`
	MatchImminent bool  `json:"matchImminent"`
	IsMatched     bool  `json:"isMatched"`
}

type CurrentMatchSaveGameDto struct {
	GameID int64 `json:"gameId"`
	UserID int64 `json:"userId"`
}

type CurrentMatchFindDto struct {
	GameID int64 `json:"gameId"`
}

// CurrentMatchRemoveDto removes a single user's match, or when SlotID is set,
// the matches of every team member of that slot.
type CurrentMatchRemoveDto struct {
	UserID int64  `json:"userId"`
	SlotID *int64 `json:"slotId,omitempty"`
}

type CurrentMatchCreateRequestDto struct {
	UserID        int64  `json:"userId"`
	SlotID        int64  `json:"slotId"`
	GameID        *int64 `json:"gameId,omitempty"`
	MatchImminent bool   `json:"matchImminent"`
	IsMatched     bool   `json:"isMatched"`
}

type CurrentMatchUpdateRequestDto struct {
	CurrentMatchID int64 `json:"currentMatchId"`
	MatchImminent  bool  `json:"matchImminent"`
	IsMatched      bool  `json:"isMatched"`
}

type CurrentMatchDeleteDto struct {
	CurrentMatchID int64 `json:"currentMatchId"`
}
