package sql

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const _queryTimeout = 5 * time.Second

func NewSQLiteORM(path string) (ORM, error) {
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}

	return &DB{DB: gormDB, autoMigrationEnabled: true, timeout: _queryTimeout, system: "sqlite"}, nil
}

// NewMemoryORM opens a private in-memory database, used by tests.
func NewMemoryORM() (ORM, error) {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite in-memory db: %w", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sqlite connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{DB: gormDB, autoMigrationEnabled: true, system: "sqlite"}, nil
}
