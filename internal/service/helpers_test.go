package service

import (
	"testing"
	"time"

	"longevityhub/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testDay(offset int) string {
	return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, offset).Format("2006-01-02")
}

func testToday() time.Time {
	return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
}
