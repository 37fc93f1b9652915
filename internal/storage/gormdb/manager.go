package gormdb

import (
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"gorm.io/gorm"
)

// Manager implements the StorageManager interface for gorm.
type Manager struct {
	db         *gorm.DB
	companies  *CompanyStore
	statements *StatementStore
	logger     *common.Logger
}

// NewManager opens the database and creates the stores.
func NewManager(logger *common.Logger, cfg *config.StorageConfig) (interfaces.StorageManager, error) {
	db, err := Open(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		companies:  NewCompanyStore(db, logger),
		statements: NewStatementStore(db, logger),
		logger:     logger,
	}

	logger.Debug().Msg("gorm storage manager initialized")

	return manager, nil
}

// CompanyStore returns the company directory store.
func (m *Manager) CompanyStore() interfaces.CompanyStore {
	return m.companies
}

// StatementStore returns the line item cache.
func (m *Manager) StatementStore() interfaces.StatementStore {
	return m.statements
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
