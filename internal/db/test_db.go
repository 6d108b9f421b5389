package db

import (
	"fmt"

	appLogger "github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB returns a migrated in-memory SQLite database. Category seeding
// is skipped so each test starts from empty tables.
func SetupTestDB() (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite instance: %w", err)
	}
	// each pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return conn, nil
}

// CleanupTestDB closes a database opened by SetupTestDB or a test container
func CleanupTestDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		appLogger.Warn("Test database already detached", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := sqlDB.Close(); err != nil {
		appLogger.Warn("Failed to close test database", map[string]interface{}{"error": err.Error()})
	}
}
