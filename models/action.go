package models

import "time"

// Action is an event-type definition scoped to a team. Every recorded
// MatchEvent must resolve to exactly one Action by its key.
type Action struct {
	ID        int          `json:"id"`
	TeamID    int          `json:"team"`
	Key       string       `json:"key"`
	Name      string       `json:"name"`
	Color     string       `json:"color"`
	Enabled   bool         `json:"enabled"`
	Default   bool         `json:"default"`
	Status    EntityStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// DefaultActionKeys seeds a team's action table. The "_opponent" variants
// count against the opposing side in match info aggregates.
var DefaultActionKeys = []string{
	"automatic",
	"first_half",
	"goal",
	"goal_opponent",
	"yellow_card",
	"yellow_card_opponent",
	"red_card",
	"red_card_opponent",
	"corner",
	"corner_opponent",
	"substitution",
	"substitution_opponent",
}
