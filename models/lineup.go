package models

import "time"

type LineupSlot struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match"`
	PlayerID  int       `json:"player_id"`
	IsStarter bool      `json:"is_starter"`
	CreatedAt time.Time `json:"created_at"`

	Player *Player `json:"player,omitempty"`
}
