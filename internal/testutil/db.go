// Package testutil provides an in-memory entity store and fixture builders
// for package tests.
package testutil

import (
	"testing"

	"github.com/gdg-garage/itinerary-api/internal/database"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
// The pool is pinned to one connection so every query sees the same
// in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
