package models

import (
	"time"
)

// Lock is a physical access point. Cards reference locks through the
// card_locks join table; locks never own cards.
type Lock struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UID         string    `json:"uid" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LockAssignment is a lock annotated with whether a given card is assigned
// to it, as shown on the card detail view.
type LockAssignment struct {
	Lock
	Assigned bool `json:"assigned"`
}
