package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/models"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// AccessAttempt describes one access evaluation to be logged. CardName is
// nil when the card was unknown.
type AccessAttempt struct {
	LockID   string
	CardID   string
	CardName *string
	Success  bool
	NewCard  bool
	At       time.Time
}

// AccessLogFilter narrows List results. Zero values mean "any".
type AccessLogFilter struct {
	LockID string
	CardID string
	Limit  int
}

// AccessLogService is the synchronous, database-backed audit log.
type AccessLogService struct {
	db *gorm.DB
}

func NewAccessLogService(db *gorm.DB) *AccessLogService {
	return &AccessLogService{db: db}
}

// Record appends one entry. Failures come back as KindStorage errors.
func (s *AccessLogService) Record(ctx context.Context, a AccessAttempt) error {
	entry := &models.AccessLog{
		LockID:    a.LockID,
		CardID:    a.CardID,
		CardName:  a.CardName,
		Success:   a.Success,
		NewCard:   a.NewCard,
		CreatedAt: a.At,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return &Error{Kind: KindStorage, Op: "record access", Err: err}
	}
	return nil
}

// List returns entries newest first.
func (s *AccessLogService) List(ctx context.Context, f AccessLogFilter) ([]models.AccessLog, error) {
	q := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(clampLimit(f.Limit))
	if f.LockID != "" {
		q = q.Where("lock_id = ?", f.LockID)
	}
	if f.CardID != "" {
		q = q.Where("card_id = ?", f.CardID)
	}
	var logs []models.AccessLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, storageErr("list access logs", err)
	}
	return logs, nil
}

// RecentNewCards returns swipes of unrecognised cards since the given time,
// newest first. This backs card self-registration.
func (s *AccessLogService) RecentNewCards(ctx context.Context, since time.Time) ([]models.AccessLog, error) {
	var logs []models.AccessLog
	err := s.db.WithContext(ctx).
		Where("new_card = ? AND created_at >= ?", true, since).
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		return nil, storageErr("recent new cards", err)
	}
	return logs, nil
}

// GetByUUID retrieves one entry.
func (s *AccessLogService) GetByUUID(ctx context.Context, id string) (*models.AccessLog, error) {
	var entry models.AccessLog
	if err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&entry).Error; err != nil {
		return nil, storageErr("access log lookup", err)
	}
	return &entry, nil
}

// UpdateScore sets the administrative score, the only mutable field of an entry.
func (s *AccessLogService) UpdateScore(ctx context.Context, id string, score int) (*models.AccessLog, error) {
	res := s.db.WithContext(ctx).Model(&models.AccessLog{}).Where("uuid = ?", id).Update("score", score)
	if res.Error != nil {
		return nil, storageErr("update score", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("update score", "access log entry not found")
	}
	return s.GetByUUID(ctx, id)
}

// ScoreReport sums scored entries per card, highest total first.
func (s *AccessLogService) ScoreReport(ctx context.Context) ([]models.ScoreReport, error) {
	var report []models.ScoreReport
	err := s.db.WithContext(ctx).Model(&models.AccessLog{}).
		Select("card_id, COALESCE(MAX(card_name), '') AS card_name, COUNT(*) AS entries, COALESCE(SUM(score), 0) AS total").
		Where("score IS NOT NULL").
		Group("card_id").
		Order("total desc").
		Scan(&report).Error
	if err != nil {
		return nil, storageErr("score report", err)
	}
	return report, nil
}

// PruneOlderThan deletes entries created before cutoff and returns how many
// were removed.
func (s *AccessLogService) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AccessLog{})
	if res.Error != nil {
		return 0, storageErr("prune access logs", res.Error)
	}
	return res.RowsAffected, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLogLimit
	}
	if n > maxLogLimit {
		return maxLogLimit
	}
	return n
}
