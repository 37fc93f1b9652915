package analysis

import (
	"fmt"

	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/shopspring/decimal"
)

// Ratio names as they appear in Analysis.Ratio.
const (
	RatioCurrent         = "유동비율"
	RatioQuick           = "당좌비율"
	RatioDebt            = "부채비율"
	RatioEquity          = "자기자본비율"
	RatioOperatingMargin = "매출액영업이익률"
	RatioNetMargin       = "매출액순이익률"
	RatioROE             = "ROE"
	RatioROA             = "ROA"
)

type operand = accountKey

func bs(name string) operand { return operand{name, models.BalanceSheet} }
func is(name string) operand { return operand{name, models.IncomeStatement} }

// ratioSpec describes numerator / denominator × 100.
type ratioSpec struct {
	name        string
	numerator   operand
	denominator operand
	// lessInventory subtracts inventory from the numerator. No inventory
	// account is extracted, so the term is always zero.
	lessInventory bool
}

var ratioSpecs = []ratioSpec{
	{name: RatioCurrent, numerator: bs(AccountCurrentAssets), denominator: bs(AccountCurrentLiabilities)},
	{name: RatioQuick, numerator: bs(AccountCurrentAssets), denominator: bs(AccountCurrentLiabilities), lessInventory: true},
	{name: RatioDebt, numerator: bs(AccountTotalLiabilities), denominator: bs(AccountTotalEquity)},
	{name: RatioEquity, numerator: bs(AccountTotalEquity), denominator: bs(AccountTotalAssets)},
	{name: RatioOperatingMargin, numerator: is(AccountOperatingIncome), denominator: is(AccountRevenue)},
	{name: RatioNetMargin, numerator: is(AccountNetIncome), denominator: is(AccountRevenue)},
	{name: RatioROE, numerator: is(AccountNetIncome), denominator: bs(AccountTotalEquity)},
	{name: RatioROA, numerator: is(AccountNetIncome), denominator: bs(AccountTotalAssets)},
}

// RatioNames returns the ratio names in display order.
func RatioNames() []string {
	names := make([]string, len(ratioSpecs))
	for i, spec := range ratioSpecs {
		names[i] = spec.name
	}
	return names
}

type lookupFunc func(operand) (models.AmountPair, bool)

// ComputeRatios derives the ratios whose operands are both present and whose
// current denominator is nonzero. A ratio that fails to compute is skipped and
// reported in the returned error slice; the others are unaffected.
func ComputeRatios(balanceSheet, incomeStatement map[string]models.AmountPair) (map[string]models.RatioValue, []error) {
	lookup := func(o operand) (models.AmountPair, bool) {
		switch o.division {
		case models.BalanceSheet:
			p, ok := balanceSheet[o.name]
			return p, ok
		case models.IncomeStatement:
			p, ok := incomeStatement[o.name]
			return p, ok
		}
		return models.AmountPair{}, false
	}
	return compute(ratioSpecs, lookup)
}

func compute(specs []ratioSpec, lookup lookupFunc) (map[string]models.RatioValue, []error) {
	ratios := make(map[string]models.RatioValue, len(specs))
	var errs []error
	for _, spec := range specs {
		value, ok, err := evaluate(spec, lookup)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			ratios[spec.name] = value
		}
	}
	return ratios, errs
}

func evaluate(spec ratioSpec, lookup lookupFunc) (value models.RatioValue, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = models.RatioValue{}, false
			err = fmt.Errorf("ratio %s: %v", spec.name, r)
		}
	}()

	num, found := lookup(spec.numerator)
	if !found {
		return value, false, nil
	}
	den, found := lookup(spec.denominator)
	if !found || den.Current == 0 {
		return value, false, nil
	}

	var inventory models.AmountPair
	if spec.lessInventory {
		num.Current -= inventory.Current
		num.Previous -= inventory.Previous
	}

	value.Current = percent(num.Current, den.Current)
	value.Previous = "0"
	if den.Previous != 0 {
		value.Previous = percent(num.Previous, den.Previous)
	}
	return value, true, nil
}

var hundred = decimal.NewFromInt(100)

// percent returns numerator × 100 / denominator rounded to two places.
func percent(numerator, denominator int64) string {
	return decimal.NewFromInt(numerator).
		Mul(hundred).
		Div(decimal.NewFromInt(denominator)).
		StringFixed(2)
}
