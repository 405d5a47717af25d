package comm

import (
	"encoding/json"
	"time"
)

// subjects shared by the match and socket services
const (
	MatchServiceTopic = "match.service" // socket service -> match service
	MatchEventsTopic  = "match.events"  // match service -> socket service
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "init", "find-current-match"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// event types published on MatchEventsTopic
const (
	EventMatchAdded    = "current-match-added"
	EventMatchModified = "current-match-modified"
	EventGameAttached  = "current-match-game-attached"
	EventMatchRemoved  = "current-match-removed"
)

// CurrentMatchEvent tells the socket service which users have a changed
// current match.
type CurrentMatchEvent struct {
	Type          string    `json:"type"`
	UserIds       []int64   `json:"user_ids"`
	SlotId        int64     `json:"slot_id,omitempty"`
	GameId        *int64    `json:"game_id,omitempty"`
	MatchImminent bool      `json:"match_imminent"`
	IsMatched     bool      `json:"is_matched"`
	Timestamp     time.Time `json:"timestamp"`
}

type ErrorData struct {
	Error string `json:"error"`
}
