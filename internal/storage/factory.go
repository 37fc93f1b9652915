package storage

import (
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"github.com/bobmcallan/dart-portal/internal/storage/gormdb"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	return gormdb.NewManager(logger, &cfg.Storage)
}
