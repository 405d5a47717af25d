package models

type GameType string

const (
	GameTypeSingle GameType = "SINGLE"
	GameTypeDouble GameType = "DOUBLE"
)
