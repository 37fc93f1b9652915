package analysis

import (
	"errors"
	"testing"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1,000,000", 1000000},
		{"-1,234,567", -1234567},
		{"0", 0},
		{"", 0},
		{"  42  ", 42},
		{"-", 0},
		{"12a", 0},
		{"1.5", 0},
		{"N/A", 0},
		{"302,231,360,000,000", 302231360000000},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.input); got != tt.want {
			t.Errorf("ParseAmount(%q): expected %d, got %d", tt.input, tt.want, got)
		}
	}
}

func TestParseAmount_RoundTripBelowUnitScaling(t *testing.T) {
	for _, n := range []int64{0, 7, 999, 1000, 9999, -9999} {
		if got := ParseAmount(common.FormatNumber(n)); got != n {
			t.Errorf("round trip of %d: got %d", n, got)
		}
	}
}

func bsItem(name, current, previous string) models.LineItem {
	return models.LineItem{SjDiv: models.BalanceSheet, AccountNm: name, ThstrmAmount: current, FrmtrmAmount: previous}
}

func isItem(name, current, previous string) models.LineItem {
	return models.LineItem{SjDiv: models.IncomeStatement, AccountNm: name, ThstrmAmount: current, FrmtrmAmount: previous}
}

func TestExtract_WhitelistOnly(t *testing.T) {
	items := []models.LineItem{
		bsItem("자산총계", "1,000", "900"),
		bsItem("기타포괄손익", "5", "4"),
		isItem("기타포괄손익", "5", "4"),
		isItem("매출액", "2,000", "1,800"),
	}

	result := Extract(items)

	if _, ok := result.BalanceSheet["기타포괄손익"]; ok {
		t.Error("non-whitelisted account leaked into balanceSheet")
	}
	if _, ok := result.IncomeStatement["기타포괄손익"]; ok {
		t.Error("non-whitelisted account leaked into incomeStatement")
	}
	if got := result.BalanceSheet["자산총계"]; got != (models.AmountPair{Current: 1000, Previous: 900}) {
		t.Errorf("unexpected 자산총계: %+v", got)
	}
	if len(result.BalanceSheet) != 1 || len(result.IncomeStatement) != 1 {
		t.Errorf("expected exactly one account per statement, got %d/%d", len(result.BalanceSheet), len(result.IncomeStatement))
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	items := []models.LineItem{
		{FsDiv: models.Consolidated, SjDiv: models.BalanceSheet, AccountNm: "자산총계", ThstrmAmount: "100", FrmtrmAmount: "90"},
		{FsDiv: models.Separate, SjDiv: models.BalanceSheet, AccountNm: "자산총계", ThstrmAmount: "50", FrmtrmAmount: "45"},
	}

	got := Extract(items).BalanceSheet["자산총계"]
	if got.Current != 100 || got.Previous != 90 {
		t.Errorf("expected the first row to win, got %+v", got)
	}
}

func TestExtract_DivisionMustMatch(t *testing.T) {
	// 매출액 listed under BS is not an income statement account.
	items := []models.LineItem{bsItem("매출액", "10", "5")}

	result := Extract(items)
	if !result.Empty() {
		t.Errorf("expected no accounts, got %+v", result)
	}
}

func TestExtract_EmptyAmountsParseAsZero(t *testing.T) {
	result := Extract([]models.LineItem{isItem("영업이익", "", "")})
	got, ok := result.IncomeStatement["영업이익"]
	if !ok {
		t.Fatal("expected 영업이익 to be present")
	}
	if got.Current != 0 || got.Previous != 0 {
		t.Errorf("expected zero pair, got %+v", got)
	}
}

func TestComputeRatios_PreviousDenominatorZero(t *testing.T) {
	balance := map[string]models.AmountPair{
		"유동자산": {Current: 1000, Previous: 800},
		"유동부채": {Current: 500, Previous: 0},
	}

	ratios, errs := ComputeRatios(balance, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got, ok := ratios[RatioCurrent]
	if !ok {
		t.Fatal("expected 유동비율 to be present")
	}
	if got.Current != "200.00" {
		t.Errorf("expected current 200.00, got %s", got.Current)
	}
	if got.Previous != "0" {
		t.Errorf("expected previous 0, got %s", got.Previous)
	}

	quick := ratios[RatioQuick]
	if quick != got {
		t.Errorf("expected quick ratio to equal current ratio with zero inventory, got %+v", quick)
	}
}

func TestComputeRatios_MissingEquity(t *testing.T) {
	balance := map[string]models.AmountPair{
		"자산총계": {Current: 1000, Previous: 900},
		"부채총계": {Current: 400, Previous: 380},
	}
	income := map[string]models.AmountPair{
		"당기순이익": {Current: 150, Previous: 120},
	}

	ratios, _ := ComputeRatios(balance, income)

	for _, name := range []string{RatioDebt, RatioEquity, RatioROE} {
		if _, ok := ratios[name]; ok {
			t.Errorf("expected %s to be absent without 자본총계", name)
		}
	}
	if _, ok := ratios[RatioROA]; !ok {
		t.Error("expected ROA to be present")
	}
}

func TestComputeRatios_ZeroCurrentRevenue(t *testing.T) {
	income := map[string]models.AmountPair{
		"매출액":  {Current: 0, Previous: 500},
		"영업이익": {Current: 10, Previous: 5},
	}

	ratios, _ := ComputeRatios(nil, income)
	if _, ok := ratios[RatioOperatingMargin]; ok {
		t.Error("expected 매출액영업이익률 to be absent when current revenue is 0")
	}
}

func TestComputeRatios_Rounding(t *testing.T) {
	balance := map[string]models.AmountPair{
		"유동자산": {Current: 2, Previous: 1},
		"유동부채": {Current: 3, Previous: 8},
	}

	ratios, _ := ComputeRatios(balance, nil)
	got := ratios[RatioCurrent]
	if got.Current != "66.67" {
		t.Errorf("expected 66.67, got %s", got.Current)
	}
	if got.Previous != "12.50" {
		t.Errorf("expected 12.50, got %s", got.Previous)
	}
}

func TestComputeRatios_NegativeValues(t *testing.T) {
	income := map[string]models.AmountPair{
		"매출액":   {Current: 1000, Previous: 1000},
		"당기순이익": {Current: -125, Previous: 0},
	}

	ratios, _ := ComputeRatios(nil, income)
	got := ratios[RatioNetMargin]
	if got.Current != "-12.50" || got.Previous != "0.00" {
		t.Errorf("unexpected 매출액순이익률: %+v", got)
	}
}

func TestCompute_IsolatesPanics(t *testing.T) {
	lookup := func(o operand) (models.AmountPair, bool) {
		if o.name == AccountTotalEquity {
			panic("corrupt operand")
		}
		return models.AmountPair{Current: 100, Previous: 50}, true
	}

	ratios, errs := compute(ratioSpecs, lookup)

	// 부채비율, 자기자본비율 and ROE touch 자본총계.
	if len(errs) != 3 {
		t.Fatalf("expected 3 recovered failures, got %d: %v", len(errs), errs)
	}
	for _, name := range []string{RatioDebt, RatioEquity, RatioROE} {
		if _, ok := ratios[name]; ok {
			t.Errorf("expected %s to be skipped", name)
		}
	}
	for _, name := range []string{RatioCurrent, RatioQuick, RatioOperatingMargin, RatioNetMargin, RatioROA} {
		if got := ratios[name]; got.Current != "100.00" {
			t.Errorf("expected %s current 100.00, got %+v", name, got)
		}
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	items := []models.LineItem{
		bsItem("자산총계", "1,000,000", "900,000"),
		bsItem("부채총계", "400,000", "380,000"),
		bsItem("자본총계", "600,000", "520,000"),
		isItem("매출액", "2,000,000", "1,800,000"),
		isItem("당기순이익", "150,000", "120,000"),
		isItem("기타포괄손익", "1,000", "900"),
	}

	result, err := NewAnalyzer(nil).Analyze(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		RatioDebt:      "66.67",
		RatioEquity:    "60.00",
		RatioNetMargin: "7.50",
		RatioROE:       "25.00",
		RatioROA:       "15.00",
	}
	for name, current := range want {
		got, ok := result.Ratio[name]
		if !ok {
			t.Errorf("expected ratio %s", name)
			continue
		}
		if got.Current != current {
			t.Errorf("%s: expected %s, got %s", name, current, got.Current)
		}
	}

	for _, name := range []string{RatioCurrent, RatioQuick, RatioOperatingMargin} {
		if _, ok := result.Ratio[name]; ok {
			t.Errorf("expected %s to be absent", name)
		}
	}
	if got := result.Ratio[RatioDebt].Previous; got != "73.08" {
		t.Errorf("expected 부채비율 previous 73.08, got %s", got)
	}
	if len(result.BalanceSheet) != 3 || len(result.IncomeStatement) != 2 {
		t.Errorf("unexpected mapping sizes %d/%d", len(result.BalanceSheet), len(result.IncomeStatement))
	}
}

func TestAnalyze_EmptyList(t *testing.T) {
	_, err := NewAnalyzer(nil).Analyze(nil)
	if !errors.Is(err, ErrNoUsableData) {
		t.Errorf("expected ErrNoUsableData, got %v", err)
	}
}

func TestAnalyze_OnlyUnknownAccounts(t *testing.T) {
	_, err := NewAnalyzer(common.NewSilentLogger()).Analyze([]models.LineItem{bsItem("기타포괄손익", "1", "1")})
	if !errors.Is(err, ErrNoUsableData) {
		t.Errorf("expected ErrNoUsableData, got %v", err)
	}
}

func TestAccountsAndRatioNames(t *testing.T) {
	if got := Accounts(models.BalanceSheet); len(got) != 7 || got[0] != "자산총계" {
		t.Errorf("unexpected balance sheet accounts %v", got)
	}
	if got := Accounts(models.IncomeStatement); len(got) != 4 || got[3] != "당기순이익" {
		t.Errorf("unexpected income statement accounts %v", got)
	}
	if got := RatioNames(); len(got) != 8 || got[0] != RatioCurrent || got[7] != RatioROA {
		t.Errorf("unexpected ratio names %v", got)
	}
}
