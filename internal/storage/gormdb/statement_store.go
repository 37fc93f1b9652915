package gormdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const statementBatchSize = 200

// statementRow is one cached line item. The composite unique index is the
// natural key; corp_code also carries its own index for per-company reads.
type statementRow struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	CorpCode        string `gorm:"column:corp_code;size:8;not null;index:idx_fs_corp_code;uniqueIndex:uidx_fs_natural,priority:1"`
	BsnsYear        string `gorm:"column:bsns_year;size:4;not null;uniqueIndex:uidx_fs_natural,priority:2"`
	ReprtCode       string `gorm:"column:reprt_code;size:5;not null;uniqueIndex:uidx_fs_natural,priority:3"`
	FsDiv           string `gorm:"column:fs_div;size:3;not null;uniqueIndex:uidx_fs_natural,priority:4"`
	SjDiv           string `gorm:"column:sj_div;size:2;not null;uniqueIndex:uidx_fs_natural,priority:5"`
	AccountNm       string `gorm:"column:account_nm;not null;uniqueIndex:uidx_fs_natural,priority:6"`
	RceptNo         string `gorm:"column:rcept_no"`
	StockCode       string `gorm:"column:stock_code"`
	FsNm            string `gorm:"column:fs_nm"`
	SjNm            string `gorm:"column:sj_nm"`
	ThstrmNm        string `gorm:"column:thstrm_nm"`
	ThstrmDt        string `gorm:"column:thstrm_dt"`
	ThstrmAmount    string `gorm:"column:thstrm_amount"`
	ThstrmAddAmount string `gorm:"column:thstrm_add_amount"`
	FrmtrmNm        string `gorm:"column:frmtrm_nm"`
	FrmtrmDt        string `gorm:"column:frmtrm_dt"`
	FrmtrmAmount    string `gorm:"column:frmtrm_amount"`
	FrmtrmAddAmount string `gorm:"column:frmtrm_add_amount"`
	BfefrmtrmNm     string `gorm:"column:bfefrmtrm_nm"`
	BfefrmtrmDt     string `gorm:"column:bfefrmtrm_dt"`
	BfefrmtrmAmount string `gorm:"column:bfefrmtrm_amount"`
	Ord             string `gorm:"column:ord"`
	Currency        string `gorm:"column:currency"`
}

func (statementRow) TableName() string { return "financial_statements" }

func statementRowOf(item models.LineItem) statementRow {
	return statementRow{
		CorpCode:        item.CorpCode,
		BsnsYear:        item.BsnsYear,
		ReprtCode:       item.ReprtCode,
		FsDiv:           item.FsDiv,
		SjDiv:           string(item.SjDiv),
		AccountNm:       item.AccountNm,
		RceptNo:         item.RceptNo,
		StockCode:       item.StockCode,
		FsNm:            item.FsNm,
		SjNm:            item.SjNm,
		ThstrmNm:        item.ThstrmNm,
		ThstrmDt:        item.ThstrmDt,
		ThstrmAmount:    item.ThstrmAmount,
		ThstrmAddAmount: item.ThstrmAddAmount,
		FrmtrmNm:        item.FrmtrmNm,
		FrmtrmDt:        item.FrmtrmDt,
		FrmtrmAmount:    item.FrmtrmAmount,
		FrmtrmAddAmount: item.FrmtrmAddAmount,
		BfefrmtrmNm:     item.BfefrmtrmNm,
		BfefrmtrmDt:     item.BfefrmtrmDt,
		BfefrmtrmAmount: item.BfefrmtrmAmount,
		Ord:             item.Ord,
		Currency:        item.Currency,
	}
}

func (r statementRow) toModel() models.LineItem {
	return models.LineItem{
		RceptNo:         r.RceptNo,
		BsnsYear:        r.BsnsYear,
		CorpCode:        r.CorpCode,
		StockCode:       r.StockCode,
		ReprtCode:       r.ReprtCode,
		AccountNm:       r.AccountNm,
		FsDiv:           r.FsDiv,
		FsNm:            r.FsNm,
		SjDiv:           models.StatementDivision(r.SjDiv),
		SjNm:            r.SjNm,
		ThstrmNm:        r.ThstrmNm,
		ThstrmDt:        r.ThstrmDt,
		ThstrmAmount:    r.ThstrmAmount,
		ThstrmAddAmount: r.ThstrmAddAmount,
		FrmtrmNm:        r.FrmtrmNm,
		FrmtrmDt:        r.FrmtrmDt,
		FrmtrmAmount:    r.FrmtrmAmount,
		FrmtrmAddAmount: r.FrmtrmAddAmount,
		BfefrmtrmNm:     r.BfefrmtrmNm,
		BfefrmtrmDt:     r.BfefrmtrmDt,
		BfefrmtrmAmount: r.BfefrmtrmAmount,
		Ord:             r.Ord,
		Currency:        r.Currency,
	}
}

// StatementStore implements interfaces.StatementStore.
type StatementStore struct {
	db     *gorm.DB
	logger *common.Logger
}

// NewStatementStore creates a statement store on db.
func NewStatementStore(db *gorm.DB, logger *common.Logger) *StatementStore {
	return &StatementStore{db: db, logger: logger}
}

// Find returns cached rows in insertion order, which preserves the upstream
// ordering the normalizer relies on.
func (s *StatementStore) Find(ctx context.Context, corpCode string, year int, code models.ReportCode) ([]models.LineItem, error) {
	var rows []statementRow
	err := s.db.WithContext(ctx).
		Where("corp_code = ? AND bsns_year = ? AND reprt_code = ?", corpCode, strconv.Itoa(year), code.String()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("statement lookup failed: %w", err)
	}

	items := make([]models.LineItem, len(rows))
	for i, r := range rows {
		items[i] = r.toModel()
	}
	return items, nil
}

// InsertIgnore inserts items, skipping any whose natural key already exists.
// It returns the number of rows actually written.
func (s *StatementStore) InsertIgnore(ctx context.Context, items []models.LineItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	rows := make([]statementRow, len(items))
	for i, item := range items {
		rows[i] = statementRowOf(item)
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, statementBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("statement insert failed: %w", result.Error)
	}

	s.logger.Debug().
		Int("items", len(items)).
		Int64("inserted", result.RowsAffected).
		Msg("statements cached")
	return result.RowsAffected, nil
}
