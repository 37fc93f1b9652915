package analysis

import (
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/models"
)

// Analyzer runs extraction and ratio derivation, logging per-ratio failures.
type Analyzer struct {
	logger *common.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger discards ratio failures.
func NewAnalyzer(logger *common.Logger) *Analyzer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Analyzer{logger: logger}
}

// Analyze normalizes items and computes ratios. It returns ErrNoUsableData
// when no whitelisted account is present, including for an empty list.
func (a *Analyzer) Analyze(items []models.LineItem) (*models.Analysis, error) {
	result := Extract(items)
	if result.Empty() {
		return nil, ErrNoUsableData
	}

	ratios, errs := ComputeRatios(result.BalanceSheet, result.IncomeStatement)
	for _, err := range errs {
		a.logger.Error().Err(err).Msg("ratio computation failed, skipping")
	}
	result.Ratio = ratios
	return result, nil
}
