package services

import "github.com/Wikid82/lockward/internal/models"

// Evaluate decides whether card may open lockID. Access requires a known
// card, an assignment to that lock, and administrative approval; all three
// must hold. Lock existence is not checked: an unknown lock id is simply
// never in any card's assignment set.
func Evaluate(lockID string, card *models.Card) bool {
	if card == nil {
		return false
	}
	return card.Approved && card.HasLock(lockID)
}
