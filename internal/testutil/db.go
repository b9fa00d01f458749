package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voice-leads-go/internal/types"
)

// OpenTestDB opens an in-memory sqlite database with all tables migrated.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&types.Assistant{},
		&types.CallRecord{},
		&types.ExtractedResponse{},
		&types.SyncJob{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
