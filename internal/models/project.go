package models

import (
	"time"
)

// Project groups cards under a named initiative owned by an admin account.
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UID         string    `json:"uid" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description" gorm:"type:text"`
	Owner       string    `json:"owner" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
