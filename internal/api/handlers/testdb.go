package handlers

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/database"
)

// OpenTestDB creates a migrated SQLite in-memory DB unique per test. It is
// limited to one connection so the audit writer goroutine and the test
// never contend for shared-cache table locks.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}
