package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Wikid82/lockward/internal/logger"
	"github.com/Wikid82/lockward/internal/models"
)

// sqlitePragmas reduce SQLITE_BUSY errors when the audit writer and request
// handlers touch the database at the same time.
const sqlitePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"

// Connect opens the SQLite database at dbPath. Constraint violations are
// translated into gorm sentinel errors (gorm.ErrDuplicatedKey) so callers can
// detect uid collisions without parsing driver messages.
func Connect(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.Component("gorm"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted model,
// including the card_locks and card_projects join tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Lock{}, &models.Project{}, &models.Card{}, &models.AccessLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func dsn(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + sqlitePragmas
	}
	return dbPath + "?" + sqlitePragmas
}
