package common

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatOptions controls FormatKRW output.
type FormatOptions struct {
	// Short drops the trailing "원".
	Short bool
}

var koreanUnits = []struct {
	size   decimal.Decimal
	suffix string
}{
	{decimal.New(1, 12), "조"},
	{decimal.New(1, 8), "억"},
	{decimal.New(1, 4), "만"},
}

var (
	wholeFormatter  = money.NewFormatter(0, ".", ",", "", "1")
	tenthsFormatter = money.NewFormatter(1, ".", ",", "", "1")
)

// FormatKRW renders an amount with Korean numeric units, e.g. 250000000 as
// "2.5억원" and 12345678 as "1,234.6만원". Amounts below 10,000 are grouped
// without a unit.
func FormatKRW(amount int64, opts FormatOptions) string {
	abs := decimal.NewFromInt(amount).Abs()

	text := wholeFormatter.Format(abs.IntPart())
	suffix := ""
	for _, unit := range koreanUnits {
		if abs.LessThan(unit.size) {
			continue
		}
		tenths := abs.Div(unit.size).Round(1).Shift(1).IntPart()
		text = strings.TrimSuffix(tenthsFormatter.Format(tenths), ".0")
		suffix = unit.suffix
		break
	}

	if amount < 0 {
		text = "-" + text
	}
	if opts.Short {
		return text + suffix
	}
	return text + suffix + "원"
}

// FormatNumber groups thousands: -1234567 becomes "-1,234,567".
func FormatNumber(n int64) string {
	return wholeFormatter.Format(n)
}

// FormatDate turns "20240315" into "2024-03-15". Other input is returned as is.
func FormatDate(yyyymmdd string) string {
	if len(yyyymmdd) != 8 {
		return yyyymmdd
	}
	return yyyymmdd[:4] + "-" + yyyymmdd[4:6] + "-" + yyyymmdd[6:]
}

// ChangeRate returns (current − previous) / |previous| × 100 with one decimal
// place. ok is false when previous is zero.
func ChangeRate(current, previous int64) (rate string, ok bool) {
	if previous == 0 {
		return "", false
	}
	prev := decimal.NewFromInt(previous)
	return decimal.NewFromInt(current).
		Sub(prev).
		Div(prev.Abs()).
		Mul(decimal.NewFromInt(100)).
		StringFixed(1), true
}
