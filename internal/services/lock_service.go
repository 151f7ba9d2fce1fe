package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/models"
)

// LockUpdate is a partial update; nil fields are left untouched.
type LockUpdate struct {
	UID         *string
	Name        *string
	Description *string
}

type LockService struct {
	db *gorm.DB
}

func NewLockService(db *gorm.DB) *LockService {
	return &LockService{db: db}
}

// List returns all locks sorted by name.
func (s *LockService) List(ctx context.Context) ([]models.Lock, error) {
	var locks []models.Lock
	if err := s.db.WithContext(ctx).Order("name asc").Find(&locks).Error; err != nil {
		return nil, storageErr("list locks", err)
	}
	return locks, nil
}

// GetByUID retrieves a lock by its external uid.
func (s *LockService) GetByUID(ctx context.Context, uid string) (*models.Lock, error) {
	var lock models.Lock
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&lock).Error; err != nil {
		return nil, storageErr("lock lookup", err)
	}
	return &lock, nil
}

// Create adds a lock; the uid must be unique.
func (s *LockService) Create(ctx context.Context, lock *models.Lock) error {
	lock.UID = strings.TrimSpace(lock.UID)
	if lock.UID == "" {
		return badRequest("create lock", "uid is required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUIDFree(tx, &models.Lock{}, lock.UID, "create lock"); err != nil {
			return err
		}
		lock.ID = 0
		return storageErr("create lock", tx.Create(lock).Error)
	})
}

// Update applies a partial update. Card assignments follow the lock's
// internal id, so renaming the uid keeps them intact.
func (s *LockService) Update(ctx context.Context, uid string, u LockUpdate) (*models.Lock, error) {
	const op = "update lock"
	var lock models.Lock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).First(&lock).Error; err != nil {
			return storageErr(op, err)
		}
		if u.UID != nil {
			newUID := strings.TrimSpace(*u.UID)
			if newUID == "" {
				return badRequest(op, "uid must not be empty")
			}
			if newUID != lock.UID {
				if err := ensureUIDFree(tx, &models.Lock{}, newUID, op); err != nil {
					return err
				}
				lock.UID = newUID
			}
		}
		setString(&lock.Name, u.Name)
		setString(&lock.Description, u.Description)
		return storageErr(op, tx.Save(&lock).Error)
	})
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// Delete removes the lock and retracts it from every card's assignment set
// in the same transaction.
func (s *LockService) Delete(ctx context.Context, uid string) error {
	const op = "delete lock"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lock models.Lock
		if err := tx.Where("uid = ?", uid).First(&lock).Error; err != nil {
			return storageErr(op, err)
		}
		if err := tx.Exec("DELETE FROM card_locks WHERE lock_id = ?", lock.ID).Error; err != nil {
			return storageErr(op, err)
		}
		return storageErr(op, tx.Delete(&lock).Error)
	})
}
