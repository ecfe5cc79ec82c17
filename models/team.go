package models

import "time"

type Club struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ClubID    int       `json:"club"`
	CreatedAt time.Time `json:"created_at"`

	Club    *Club    `json:"club_detail,omitempty"`
	Players []Player `json:"players,omitempty"`
}
