package models

// EntityStatus covers soft lifecycle of actions and events.
type EntityStatus string

const (
	StatusActive   EntityStatus = "ACTIVE"
	StatusInactive EntityStatus = "INACTIVE"
	StatusDeleted  EntityStatus = "DELETED"
)
