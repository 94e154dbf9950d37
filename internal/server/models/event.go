package models

import "time"

// SignupEvent is an outbox row describing a newly registered identity.
// It carries only the reference data the profile service needs; credential
// material is never part of the payload.
type SignupEvent struct {
	ID          string
	UserID      string
	Name        string
	Contact     string
	Attempts    int
	CreatedAt   time.Time
	DeliveredAt *time.Time
}
