package models

import "time"

type Player struct {
	ID           int       `json:"id"`
	TeamID       int       `json:"team"`
	Name         string    `json:"name"`
	Number       string    `json:"number"`
	Position     string    `json:"position"`
	TotalMinutes int       `json:"total_minutes"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
