package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/models"
)

func setupAccess(t *testing.T) (*AccessService, *gorm.DB, *recordingReporter) {
	t.Helper()
	db := setupTestDB(t)
	seedLocks(t, db, "L1", "L2")
	cards := NewCardService(db)
	ctx := context.Background()
	require.NoError(t, cards.Create(ctx, &models.Card{UID: "A1", Name: "Alice", Approved: true}, []string{"L1"}, "admin"))
	require.NoError(t, cards.Create(ctx, &models.Card{UID: "U1", Name: "Unapproved"}, []string{"L1"}, "admin"))

	reporter := &recordingReporter{}
	return NewAccessService(cards, NewAccessLogService(db), reporter), db, reporter
}

func logEntries(t *testing.T, db *gorm.DB) []models.AccessLog {
	t.Helper()
	var logs []models.AccessLog
	require.NoError(t, db.Order("id asc").Find(&logs).Error)
	return logs
}

func TestAccessService_Decisions(t *testing.T) {
	tests := []struct {
		name    string
		lock    string
		card    string
		granted bool
		known   bool
	}{
		{"approved and assigned", "L1", "A1", true, true},
		{"approved, lock not assigned", "L2", "A1", false, true},
		{"unapproved but assigned", "L1", "U1", false, true},
		{"unknown card", "L1", "Z9", false, false},
		{"unknown card, unknown lock", "NOPE", "Z9", false, false},
		{"known card, unknown lock", "NOPE", "A1", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, reporter := setupAccess(t)

			got, err := svc.Check(context.Background(), AccessRequest{LockID: tt.lock, CardID: tt.card})
			require.NoError(t, err)
			assert.Equal(t, tt.lock, got.LockID)
			assert.Equal(t, tt.granted, got.Granted)
			assert.Equal(t, tt.known, got.KnownCard)

			logs := logEntries(t, db)
			require.Len(t, logs, 1)
			assert.Equal(t, tt.lock, logs[0].LockID)
			assert.Equal(t, tt.card, logs[0].CardID)
			assert.Equal(t, tt.granted, logs[0].Success, "logged outcome must equal returned outcome")
			assert.Equal(t, !tt.known, logs[0].NewCard)
			if tt.known {
				require.NotNil(t, logs[0].CardName)
			} else {
				assert.Nil(t, logs[0].CardName)
			}
			assert.Empty(t, reporter.all())
		})
	}
}

func TestAccessService_SyncProbeSkipsLog(t *testing.T) {
	for _, card := range []string{"A1", "U1", "Z9"} {
		t.Run(card, func(t *testing.T) {
			svc, db, _ := setupAccess(t)
			ctx := context.Background()

			probe, err := svc.Check(ctx, AccessRequest{LockID: "L1", CardID: card, IsSync: true})
			require.NoError(t, err)
			assert.Empty(t, logEntries(t, db))

			real, err := svc.Check(ctx, AccessRequest{LockID: "L1", CardID: card})
			require.NoError(t, err)
			assert.Equal(t, real.Granted, probe.Granted)
			assert.Len(t, logEntries(t, db), 1)
		})
	}
}

func TestIsSyncProbe(t *testing.T) {
	assert.True(t, IsSyncProbe("y"))
	for _, v := range []string{"", "Y", "yes", "n", "true", "1", " y"} {
		assert.False(t, IsSyncProbe(v), v)
	}
}

func TestAccessService_MissingParameters(t *testing.T) {
	svc, db, _ := setupAccess(t)
	ctx := context.Background()

	_, err := svc.Check(ctx, AccessRequest{CardID: "A1"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), `"lock"`)

	_, err = svc.Check(ctx, AccessRequest{LockID: "L1"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), `"card"`)

	_, err = svc.Check(ctx, AccessRequest{})
	assert.Contains(t, err.Error(), `"lock"`, "lock is validated first")

	assert.Empty(t, logEntries(t, db))
}

func TestAccessService_SnapshotsCardName(t *testing.T) {
	svc, db, _ := setupAccess(t)
	ctx := context.Background()

	_, err := svc.Check(ctx, AccessRequest{LockID: "L1", CardID: "A1"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = NewCardService(db).Update(ctx, "A1", CardUpdate{Name: &name}, "admin")
	require.NoError(t, err)

	logs := logEntries(t, db)
	require.Len(t, logs, 1)
	assert.Equal(t, "Alice", *logs[0].CardName)
}

type failingRecorder struct{ err error }

func (f failingRecorder) Record(context.Context, AccessAttempt) error { return f.err }

func TestAccessService_AuditFailureDoesNotChangeDecision(t *testing.T) {
	db := setupTestDB(t)
	seedLocks(t, db, "L1")
	cards := NewCardService(db)
	require.NoError(t, cards.Create(context.Background(), &models.Card{UID: "A1", Approved: true}, []string{"L1"}, "admin"))

	reporter := &recordingReporter{}
	cause := errors.New("disk full")
	svc := NewAccessService(cards, failingRecorder{err: cause}, reporter)

	got, err := svc.Check(context.Background(), AccessRequest{LockID: "L1", CardID: "A1"})
	require.NoError(t, err)
	assert.True(t, got.Granted)

	reports := reporter.all()
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].err, cause)
	assert.Equal(t, "L1", reports[0].fields["lock"])
	assert.Equal(t, true, reports[0].fields["success"])
}

type brokenLookup struct{}

func (brokenLookup) FindForAccess(context.Context, string) (*models.Card, error) {
	return nil, storageErr("card lookup", errors.New("database is locked"))
}

func TestAccessService_RegistryFailure(t *testing.T) {
	reporter := &recordingReporter{}
	svc := NewAccessService(brokenLookup{}, failingRecorder{}, reporter)

	_, err := svc.Check(context.Background(), AccessRequest{LockID: "L1", CardID: "A1"})
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Empty(t, reporter.all())
}
