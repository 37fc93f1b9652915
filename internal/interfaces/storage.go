package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/dart-portal/internal/models"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (SQLite locally, Postgres when deployed).
type StorageManager interface {
	CompanyStore() CompanyStore
	StatementStore() StatementStore
	Close() error
}

// CompanyStore is the corporation directory. It is replaced wholesale on each
// directory load and read concurrently by searches.
type CompanyStore interface {
	// Search matches keyword against Korean and English names, most recently
	// modified first.
	Search(ctx context.Context, keyword string, limit int) ([]models.Company, error)
	Get(ctx context.Context, corpCode string) (*models.Company, error)
	GetByStockCode(ctx context.Context, stockCode string) (*models.Company, error)
	ReplaceAll(ctx context.Context, companies []models.Company) (int, error)
	Count(ctx context.Context) (int64, error)
}

// StatementStore caches raw line items per (corp_code, bsns_year, reprt_code).
// Rows are unique on (corp_code, bsns_year, reprt_code, fs_div, sj_div,
// account_nm); inserting an existing row is a no-op.
type StatementStore interface {
	Find(ctx context.Context, corpCode string, year int, code models.ReportCode) ([]models.LineItem, error)
	InsertIgnore(ctx context.Context, items []models.LineItem) (int64, error)
}
