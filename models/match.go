package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

type Match struct {
	ID          int         `json:"id"`
	TeamID      int         `json:"team"`
	Name        string      `json:"name"`
	Media       *string     `json:"media"`
	SecondMedia *string     `json:"second_media"`
	Status      MatchStatus `json:"status"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
