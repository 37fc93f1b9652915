package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"github.com/bobmcallan/dart-portal/internal/models"
	"gorm.io/gorm"
)

const companyBatchSize = 500

type companyRow struct {
	CorpCode    string `gorm:"column:corp_code;primaryKey;size:8"`
	CorpName    string `gorm:"column:corp_name;not null;index:idx_companies_corp_name"`
	CorpEngName string `gorm:"column:corp_eng_name"`
	StockCode   string `gorm:"column:stock_code;index:idx_companies_stock_code"`
	ModifyDate  string `gorm:"column:modify_date;size:8"`
}

func (companyRow) TableName() string { return "companies" }

func (r companyRow) toModel() models.Company {
	return models.Company{
		CorpCode:    r.CorpCode,
		CorpName:    r.CorpName,
		CorpEngName: r.CorpEngName,
		StockCode:   r.StockCode,
		ModifyDate:  r.ModifyDate,
	}
}

func companyRowOf(c models.Company) companyRow {
	c = c.Normalize()
	return companyRow{
		CorpCode:    c.CorpCode,
		CorpName:    c.CorpName,
		CorpEngName: c.CorpEngName,
		StockCode:   c.StockCode,
		ModifyDate:  c.ModifyDate,
	}
}

// CompanyStore implements interfaces.CompanyStore.
type CompanyStore struct {
	db     *gorm.DB
	logger *common.Logger
}

// NewCompanyStore creates a company store on db.
func NewCompanyStore(db *gorm.DB, logger *common.Logger) *CompanyStore {
	return &CompanyStore{db: db, logger: logger}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *CompanyStore) Search(ctx context.Context, keyword string, limit int) ([]models.Company, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.Company{}, nil
	}
	pattern := "%" + likeEscaper.Replace(keyword) + "%"

	var rows []companyRow
	err := s.db.WithContext(ctx).
		Where(`corp_name LIKE ? ESCAPE '\' OR LOWER(corp_eng_name) LIKE ? ESCAPE '\'`, pattern, strings.ToLower(pattern)).
		Order("modify_date DESC").
		Order("corp_name").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("company search failed: %w", err)
	}

	companies := make([]models.Company, len(rows))
	for i, r := range rows {
		companies[i] = r.toModel()
	}
	return companies, nil
}

func (s *CompanyStore) Get(ctx context.Context, corpCode string) (*models.Company, error) {
	return s.first(ctx, "corp_code = ?", strings.TrimSpace(corpCode))
}

func (s *CompanyStore) GetByStockCode(ctx context.Context, stockCode string) (*models.Company, error) {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return nil, interfaces.ErrNotFound
	}
	return s.first(ctx, "stock_code = ?", stockCode)
}

func (s *CompanyStore) first(ctx context.Context, query string, arg string) (*models.Company, error) {
	var row companyRow
	err := s.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %w", err)
	}
	c := row.toModel()
	return &c, nil
}

// ReplaceAll swaps the directory contents in one transaction. Duplicate corp
// codes in the input keep their last occurrence.
func (s *CompanyStore) ReplaceAll(ctx context.Context, companies []models.Company) (int, error) {
	byCode := make(map[string]int, len(companies))
	rows := make([]companyRow, 0, len(companies))
	for _, c := range companies {
		row := companyRowOf(c)
		if row.CorpCode == "" {
			continue
		}
		if i, ok := byCode[row.CorpCode]; ok {
			rows[i] = row
			continue
		}
		byCode[row.CorpCode] = len(rows)
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&companyRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear companies: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, companyBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert companies: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int("companies", len(rows)).Msg("company directory replaced")
	return len(rows), nil
}

func (s *CompanyStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&companyRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("company count failed: %w", err)
	}
	return n, nil
}
