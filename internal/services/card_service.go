package services

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Wikid82/lockward/internal/models"
)

// CardUpdate is a partial update; nil fields are left untouched.
type CardUpdate struct {
	UID         *string
	Name        *string
	IDNumber    *string
	Mobile      *string
	Email       *string
	MemberID    *string
	Description *string
	Expertise   *string
	Rank        *int
	Approved    *bool
	LockUIDs    *[]string
	ProjectUIDs *[]string
}

// CardService is the card registry.
type CardService struct {
	db *gorm.DB
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{db: db}
}

// GetByUID looks a card up by its external uid with its locks and projects loaded.
// It has no side effects; an unknown uid yields a KindNotFound error.
func (s *CardService) GetByUID(ctx context.Context, uid string) (*models.Card, error) {
	var card models.Card
	err := s.db.WithContext(ctx).
		Preload("Locks").
		Preload("Projects").
		Where("uid = ?", uid).
		First(&card).Error
	if err != nil {
		return nil, storageErr("card lookup", err)
	}
	return &card, nil
}

// FindForAccess loads only what an access decision needs: the card and its
// lock assignments.
func (s *CardService) FindForAccess(ctx context.Context, uid string) (*models.Card, error) {
	var card models.Card
	err := s.db.WithContext(ctx).
		Preload("Locks").
		Where("uid = ?", uid).
		First(&card).Error
	if err != nil {
		return nil, storageErr("card lookup", err)
	}
	return &card, nil
}

// List returns all cards, optionally restricted to one member account.
func (s *CardService) List(ctx context.Context, memberID string) ([]models.Card, error) {
	var cards []models.Card
	q := s.db.WithContext(ctx).Preload("Locks").Order("updated_at desc")
	if memberID != "" {
		q = q.Where("member_id = ?", memberID)
	}
	if err := q.Find(&cards).Error; err != nil {
		return nil, storageErr("list cards", err)
	}
	return cards, nil
}

// Create registers a new card and assigns it to lockUIDs.
func (s *CardService) Create(ctx context.Context, card *models.Card, lockUIDs []string, actor string) error {
	card.UID = strings.TrimSpace(card.UID)
	if card.UID == "" {
		return badRequest("create card", "uid is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUIDFree(tx, &models.Card{}, card.UID, "create card"); err != nil {
			return err
		}
		locks, err := resolveLocks(tx, lockUIDs)
		if err != nil {
			return err
		}
		card.ID = 0
		card.Locks = locks
		card.UpdatedBy = actor
		return storageErr("create card", tx.Create(card).Error)
	})
}

// Register creates a card from a full admin payload, including lock and
// project assignments, in one transaction.
func (s *CardService) Register(ctx context.Context, u CardUpdate, actor string) (*models.Card, error) {
	const op = "create card"
	card := &models.Card{}
	if u.UID != nil {
		card.UID = strings.TrimSpace(*u.UID)
	}
	if card.UID == "" {
		return nil, badRequest(op, "uid is required")
	}
	applyCardFields(card, u)
	card.UpdatedBy = actor

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUIDFree(tx, &models.Card{}, card.UID, op); err != nil {
			return err
		}
		var lockUIDs []string
		if u.LockUIDs != nil {
			lockUIDs = *u.LockUIDs
		}
		locks, err := resolveLocks(tx, lockUIDs)
		if err != nil {
			return err
		}
		card.Locks = locks
		if err := tx.Create(card).Error; err != nil {
			return storageErr(op, err)
		}
		if u.ProjectUIDs != nil {
			return replaceProjects(tx, card, *u.ProjectUIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByUID(ctx, card.UID)
}

// GetOrCreatePlaceholder returns the card for uid, creating an empty,
// unapproved placeholder when none exists. Used when an administrator opens
// a card that has so far only been seen on a reader.
func (s *CardService) GetOrCreatePlaceholder(ctx context.Context, uid, actor string) (*models.Card, bool, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, false, badRequest("open card", "uid is required")
	}
	card, err := s.GetByUID(ctx, uid)
	if err == nil {
		return card, false, nil
	}
	if KindOf(err) != KindNotFound {
		return nil, false, err
	}

	placeholder := &models.Card{UID: uid}
	if err := s.Create(ctx, placeholder, nil, actor); err != nil {
		// Lost a race with another creator: read theirs.
		if KindOf(err) == KindDuplicateIdentifier {
			card, err := s.GetByUID(ctx, uid)
			return card, false, err
		}
		return nil, false, err
	}
	return placeholder, true, nil
}

// Update applies a partial update to the card identified by uid.
func (s *CardService) Update(ctx context.Context, uid string, u CardUpdate, actor string) (*models.Card, error) {
	const op = "update card"
	targetUID := uid

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.Where("uid = ?", uid).First(&card).Error; err != nil {
			return storageErr(op, err)
		}

		if u.UID != nil {
			newUID := strings.TrimSpace(*u.UID)
			if newUID == "" {
				return badRequest(op, "uid must not be empty")
			}
			if newUID != card.UID {
				if err := ensureUIDFree(tx, &models.Card{}, newUID, op); err != nil {
					return err
				}
				card.UID = newUID
				targetUID = newUID
			}
		}
		applyCardFields(&card, u)
		card.UpdatedBy = actor

		if err := tx.Omit(clause.Associations).Save(&card).Error; err != nil {
			return storageErr(op, err)
		}

		if u.LockUIDs != nil {
			if err := replaceLocks(tx, &card, *u.LockUIDs); err != nil {
				return err
			}
		}
		if u.ProjectUIDs != nil {
			if err := replaceProjects(tx, &card, *u.ProjectUIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByUID(ctx, targetUID)
}

// AssignLocks replaces the card's lock assignment set.
func (s *CardService) AssignLocks(ctx context.Context, uid string, lockUIDs []string, actor string) (*models.Card, error) {
	return s.Update(ctx, uid, CardUpdate{LockUIDs: &lockUIDs}, actor)
}

// SetApproved flips the approval gate.
func (s *CardService) SetApproved(ctx context.Context, uid string, approved bool, actor string) (*models.Card, error) {
	return s.Update(ctx, uid, CardUpdate{Approved: &approved}, actor)
}

// Delete removes the card and its lock/project assignments. Access log
// entries for the card are kept.
func (s *CardService) Delete(ctx context.Context, uid string) error {
	const op = "delete card"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.Where("uid = ?", uid).First(&card).Error; err != nil {
			return storageErr(op, err)
		}
		return storageErr(op, tx.Select("Locks", "Projects").Delete(&card).Error)
	})
}

// LockAssignments lists every lock with a flag telling whether card is
// assigned to it.
func (s *CardService) LockAssignments(ctx context.Context, card *models.Card) ([]models.LockAssignment, error) {
	var locks []models.Lock
	if err := s.db.WithContext(ctx).Order("name asc").Find(&locks).Error; err != nil {
		return nil, storageErr("list locks", err)
	}
	out := make([]models.LockAssignment, 0, len(locks))
	for _, l := range locks {
		out = append(out, models.LockAssignment{Lock: l, Assigned: card.HasLock(l.UID)})
	}
	return out, nil
}

// applyCardFields copies the non-nil scalar fields of u onto card. UID and
// associations are handled by the callers.
func applyCardFields(card *models.Card, u CardUpdate) {
	setString(&card.Name, u.Name)
	setString(&card.IDNumber, u.IDNumber)
	setString(&card.Mobile, u.Mobile)
	setString(&card.Email, u.Email)
	setString(&card.MemberID, u.MemberID)
	setString(&card.Description, u.Description)
	setString(&card.Expertise, u.Expertise)
	if u.Rank != nil {
		card.Rank = *u.Rank
	}
	if u.Approved != nil {
		card.Approved = *u.Approved
	}
}

func replaceLocks(tx *gorm.DB, card *models.Card, lockUIDs []string) error {
	locks, err := resolveLocks(tx, lockUIDs)
	if err != nil {
		return err
	}
	assoc := tx.Model(card).Association("Locks")
	if len(locks) == 0 {
		return storageErr("assign locks", assoc.Clear())
	}
	return storageErr("assign locks", assoc.Replace(locks))
}

func replaceProjects(tx *gorm.DB, card *models.Card, projectUIDs []string) error {
	uids := dedupe(projectUIDs)
	assoc := tx.Model(card).Association("Projects")
	if len(uids) == 0 {
		return storageErr("assign projects", assoc.Clear())
	}
	var projects []models.Project
	if err := tx.Where("uid IN ?", uids).Find(&projects).Error; err != nil {
		return storageErr("assign projects", err)
	}
	if len(projects) != len(uids) {
		return badRequest("assign projects", "unknown project in "+strings.Join(uids, ","))
	}
	return storageErr("assign projects", assoc.Replace(projects))
}

// resolveLocks maps lock uids to rows, rejecting any uid that does not exist.
func resolveLocks(tx *gorm.DB, lockUIDs []string) ([]models.Lock, error) {
	uids := dedupe(lockUIDs)
	if len(uids) == 0 {
		return nil, nil
	}
	var locks []models.Lock
	if err := tx.Where("uid IN ?", uids).Find(&locks).Error; err != nil {
		return nil, storageErr("resolve locks", err)
	}
	if len(locks) != len(uids) {
		found := make(map[string]struct{}, len(locks))
		for _, l := range locks {
			found[l.UID] = struct{}{}
		}
		for _, uid := range uids {
			if _, ok := found[uid]; !ok {
				return nil, badRequest("resolve locks", "unknown lock: "+uid)
			}
		}
	}
	return locks, nil
}

// ensureUIDFree fails with KindDuplicateIdentifier when a row of model's
// table already uses uid. The unique index still backs this up under races.
func ensureUIDFree(tx *gorm.DB, model interface{}, uid, op string) error {
	var count int64
	if err := tx.Model(model).Where("uid = ?", uid).Count(&count).Error; err != nil {
		return storageErr(op, err)
	}
	if count > 0 {
		return duplicate(op, "uid already exists: "+uid)
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
