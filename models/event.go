package models

import "time"

// MatchEvent is immutable once recorded except for DelayStart corrections
// and the soft-delete status transition.
type MatchEvent struct {
	ID         int          `json:"id"`
	MatchID    int          `json:"match"`
	ActionID   int          `json:"action"`
	Type       string       `json:"type"`
	Start      float64      `json:"start"`
	DelayStart int          `json:"delay_start"`
	Status     EntityStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// EffectiveStart is the timestamp actually shown to the user: the recorded
// start minus the retroactive delay offset, never negative.
func (e *MatchEvent) EffectiveStart() float64 {
	effective := e.Start - float64(e.DelayStart)
	if effective < 0 {
		return 0
	}
	return effective
}
