package models

import (
	"time"
)

// Card is a physical access credential identified by its external uid.
// Approved is the administrative approval gate: a card must be both
// approved and assigned to a lock before it can open that lock.
type Card struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UID         string    `json:"uid" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	IDNumber    string    `json:"id_number"`
	Mobile      string    `json:"mobile"`
	Email       string    `json:"email"`
	MemberID    string    `json:"member_id" gorm:"index"` // account that owns the card
	Description string    `json:"description" gorm:"type:text"`
	Expertise   string    `json:"expertise"`
	Rank        int       `json:"rank"`
	Approved    bool      `json:"approved" gorm:"default:false"`
	Locks       []Lock    `json:"locks" gorm:"many2many:card_locks;"`
	Projects    []Project `json:"projects,omitempty" gorm:"many2many:card_projects;"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasLock reports whether lockUID is in the card's assignment set. Matching
// is on the lock's external uid, so an assignment whose lock row no longer
// exists never matches anything.
func (c *Card) HasLock(lockUID string) bool {
	for _, l := range c.Locks {
		if l.UID == lockUID {
			return true
		}
	}
	return false
}

// LockUIDs returns the external ids of the assigned locks.
func (c *Card) LockUIDs() []string {
	uids := make([]string, 0, len(c.Locks))
	for _, l := range c.Locks {
		uids = append(uids, l.UID)
	}
	return uids
}
