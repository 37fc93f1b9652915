package analysis

import (
	"errors"

	"github.com/bobmcallan/dart-portal/internal/models"
)

// Account names extracted from the key accounts response.
const (
	AccountTotalAssets        = "자산총계"
	AccountTotalLiabilities   = "부채총계"
	AccountTotalEquity        = "자본총계"
	AccountCurrentAssets      = "유동자산"
	AccountNonCurrentAssets   = "비유동자산"
	AccountCurrentLiabilities = "유동부채"
	AccountNonCurrentLiab     = "비유동부채"
	AccountRevenue            = "매출액"
	AccountOperatingIncome    = "영업이익"
	AccountPreTaxIncome       = "법인세비용차감전순이익"
	AccountNetIncome          = "당기순이익"
)

// ErrNoUsableData is returned when none of the whitelisted accounts were found.
var ErrNoUsableData = errors.New("no usable financial statement data")

type accountKey struct {
	name     string
	division models.StatementDivision
}

// whitelist is the ordered set of accounts Extract looks up.
var whitelist = []accountKey{
	{AccountTotalAssets, models.BalanceSheet},
	{AccountTotalLiabilities, models.BalanceSheet},
	{AccountTotalEquity, models.BalanceSheet},
	{AccountCurrentAssets, models.BalanceSheet},
	{AccountNonCurrentAssets, models.BalanceSheet},
	{AccountCurrentLiabilities, models.BalanceSheet},
	{AccountNonCurrentLiab, models.BalanceSheet},
	{AccountRevenue, models.IncomeStatement},
	{AccountOperatingIncome, models.IncomeStatement},
	{AccountPreTaxIncome, models.IncomeStatement},
	{AccountNetIncome, models.IncomeStatement},
}

// Accounts returns the whitelisted account names of one statement division in
// display order.
func Accounts(division models.StatementDivision) []string {
	var names []string
	for _, key := range whitelist {
		if key.division == division {
			names = append(names, key.name)
		}
	}
	return names
}

// Extract builds the balance sheet and income statement mappings from raw line
// items. Accounts that are not found are left out rather than zero filled.
// The returned Analysis has an empty ratio map.
func Extract(items []models.LineItem) *models.Analysis {
	result := models.NewAnalysis()
	for _, key := range whitelist {
		item, ok := findAccount(items, key)
		if !ok {
			continue
		}
		pair := models.AmountPair{
			Current:  ParseAmount(item.ThstrmAmount),
			Previous: ParseAmount(item.FrmtrmAmount),
		}
		switch key.division {
		case models.BalanceSheet:
			result.BalanceSheet[key.name] = pair
		case models.IncomeStatement:
			result.IncomeStatement[key.name] = pair
		}
	}
	return result
}

// findAccount returns the first item with a matching division and exact
// account name.
func findAccount(items []models.LineItem, key accountKey) (models.LineItem, bool) {
	for _, item := range items {
		if item.SjDiv == key.division && item.AccountNm == key.name {
			return item, true
		}
	}
	return models.LineItem{}, false
}
