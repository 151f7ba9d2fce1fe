package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAccessLogImmutable is returned when an update touches anything other
// than the administrative score of an access log entry.
var ErrAccessLogImmutable = errors.New("access log entries are append-only")

// AccessLog records a single access attempt. Lock and card are referenced by
// external id only and CardName is a snapshot taken at attempt time, so an
// entry stays readable after the card is renamed or deleted. CardName is nil
// when the card was unknown.
type AccessLog struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	LockID    string    `json:"lock_id" gorm:"index;not null"`
	CardID    string    `json:"card_id" gorm:"index;not null"`
	CardName  *string   `json:"card_name"`
	Success   bool      `json:"success"`
	NewCard   bool      `json:"new_card" gorm:"index"`
	Score     *int      `json:"score"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (l *AccessLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.UUID == "" {
		l.UUID = uuid.NewString()
	}
	return
}

func (l *AccessLog) BeforeUpdate(tx *gorm.DB) (err error) {
	if tx.Statement.Changed("LockID", "CardID", "CardName", "Success", "NewCard", "CreatedAt") {
		return ErrAccessLogImmutable
	}
	return
}

// ScoreReport aggregates administrative scores per card.
type ScoreReport struct {
	CardID   string `json:"card_id"`
	CardName string `json:"card_name"`
	Entries  int64  `json:"entries"`
	Total    int64  `json:"total"`
}
