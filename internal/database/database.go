package database

import (
	"fmt"
	"strings"

	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the sqlite database at path with foreign keys enforced.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=1"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}

// Migrate creates or updates every table of the entity store.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Activity{},
		&models.Trip{},
		&models.TripStop{},
		&models.TripActivity{},
		&models.Expense{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
