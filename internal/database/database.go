// Package database owns the sqlite connection and schema migration.
//
// Repositories live in per-aggregate subpackages (books, events, stats) and
// receive the *gorm.DB handle; multi-row writes that must land together go
// through Database.Transaction, the store's atomic batch-write primitive.
package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/readtrack/internal/entities"
)

type Database struct {
	DB     *gorm.DB
	logger *zap.Logger
}

func NewDatabase(dbPath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.BookEvent{},
		&entities.Statistics{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database initialized", zap.String("path", dbPath))

	return &Database{DB: db, logger: logger}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn atomically: either every write inside commits or none
// does.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}
