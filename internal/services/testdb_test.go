package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/database"
	"github.com/Wikid82/lockward/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedLocks(t *testing.T, db *gorm.DB, uids ...string) {
	t.Helper()
	svc := NewLockService(db)
	for _, uid := range uids {
		require.NoError(t, svc.Create(context.Background(), &models.Lock{UID: uid, Name: "Lock " + uid}))
	}
}

type reported struct {
	op     string
	err    error
	fields logrus.Fields
}

// recordingReporter collects reports for assertions.
type recordingReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *recordingReporter) Report(op string, err error, fields logrus.Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{op: op, err: err, fields: fields})
}

func (r *recordingReporter) all() []reported {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reported(nil), r.reports...)
}
