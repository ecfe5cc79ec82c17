package models

import "time"

// MatchInfo carries per-match denormalized counters. They are incremented
// best-effort when events are recorded and may drift from the event log;
// PATCH with absolute values is the correction path.
type MatchInfo struct {
	ID                   int       `json:"id"`
	MatchID              int       `json:"match"`
	Goal                 int       `json:"goal"`
	GoalOpponent         int       `json:"goal_opponent"`
	YellowCard           int       `json:"yellow_card"`
	YellowCardOpponent   int       `json:"yellow_card_opponent"`
	RedCard              int       `json:"red_card"`
	RedCardOpponent      int       `json:"red_card_opponent"`
	Corner               int       `json:"corner"`
	CornerOpponent       int       `json:"corner_opponent"`
	Substitution         int       `json:"substitution"`
	SubstitutionOpponent int       `json:"substitution_opponent"`
	CreatedAt            time.Time `json:"created_at"`
}

// CounterField maps an action key to the matchInfo column it increments.
// Keys without a counter (automatic, first_half) return false.
func CounterField(actionKey string) (string, bool) {
	switch actionKey {
	case "goal", "goal_opponent",
		"yellow_card", "yellow_card_opponent",
		"red_card", "red_card_opponent",
		"corner", "corner_opponent",
		"substitution", "substitution_opponent":
		return actionKey, true
	default:
		return "", false
	}
}
