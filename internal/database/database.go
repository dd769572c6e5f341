// Package database opens the SQLite store shared by the auth and
// calculation repositories.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/calculation"
)

// Open connects to the SQLite database at dsn. ":memory:" gives a private
// in-memory database.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// ":memory:" databases exist per connection.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&auth.User{}, &calculation.Calculation{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
