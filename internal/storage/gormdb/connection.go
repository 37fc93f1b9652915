// Package gormdb implements the storage interfaces on gorm, with SQLite for
// local use and Postgres for shared deployments.
package gormdb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the configured database and migrates the schema.
func Open(logger *common.Logger, cfg *config.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	logger.Debug().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("opening database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == "" || cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite allows one writer; serialize through a single connection.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&companyRow{}, &statementRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Debug().Str("driver", cfg.Driver).Msg("database initialized")
	return db, nil
}
