package models

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestParseReportCode(t *testing.T) {
	tests := []struct {
		input   string
		want    ReportCode
		wantErr bool
	}{
		{"11011", ReportAnnual, false},
		{"11012", ReportHalfYear, false},
		{"11013", ReportQ1, false},
		{" 11014 ", ReportQ3, false},
		{"11015", "", true},
		{"", "", true},
		{"annual", "", true},
	}

	for _, tt := range tests {
		got, err := ParseReportCode(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidReportCode) {
				t.Errorf("ParseReportCode(%q): expected ErrInvalidReportCode, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseReportCode(%q): unexpected error %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseReportCode(%q): expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestParseYear(t *testing.T) {
	if y, err := ParseYear("2023"); err != nil || y != 2023 {
		t.Errorf("expected 2023, got %d (%v)", y, err)
	}
	for _, bad := range []string{"", "23", "20234", "abcd", "0999"} {
		if _, err := ParseYear(bad); !errors.Is(err, ErrInvalidYear) {
			t.Errorf("ParseYear(%q): expected ErrInvalidYear, got %v", bad, err)
		}
	}
}

func TestPeriodLabels(t *testing.T) {
	if got := PeriodLabel(2023, ReportAnnual); got != "2023년 사업보고서" {
		t.Errorf("expected 2023년 사업보고서, got %s", got)
	}
	if got := PreviousPeriodLabel(2023, ReportQ3); got != "2022년 3분기보고서" {
		t.Errorf("expected 2022년 3분기보고서, got %s", got)
	}
	if got := PeriodLabel(2024, ReportHalfYear); got != "2024년 반기보고서" {
		t.Errorf("expected 2024년 반기보고서, got %s", got)
	}
}

func TestFallbackOrder(t *testing.T) {
	want := []ReportCode{"11011", "11014", "11012", "11013"}
	if len(FallbackOrder) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(FallbackOrder))
	}
	for i := range want {
		if FallbackOrder[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], FallbackOrder[i])
		}
	}
}

func TestFirstNonEmpty_ShortCircuits(t *testing.T) {
	var called []ReportCode
	fetch := func(_ context.Context, code ReportCode) ([]int, error) {
		called = append(called, code)
		if code == ReportQ3 {
			return []int{1, 2}, nil
		}
		return nil, nil
	}

	items, code, err := FirstNonEmpty(context.Background(), FallbackOrder, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != ReportQ3 {
		t.Errorf("expected 11014, got %s", code)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
	if len(called) != 2 {
		t.Errorf("expected iteration to stop after 2 calls, got %v", called)
	}
}

func TestFirstNonEmpty_AllEmpty(t *testing.T) {
	fetch := func(_ context.Context, _ ReportCode) ([]int, error) { return nil, nil }

	items, code, err := FirstNonEmpty(context.Background(), FallbackOrder, fetch)
	if err != nil || items != nil || code != "" {
		t.Errorf("expected empty result, got %v %q %v", items, code, err)
	}
}

func TestFirstNonEmpty_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(_ context.Context, _ ReportCode) ([]int, error) {
		calls++
		return nil, boom
	}

	_, _, err := FirstNonEmpty(context.Background(), FallbackOrder, fetch)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestFirstNonEmpty_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetch := func(_ context.Context, _ ReportCode) ([]int, error) {
		t.Error("fetch should not be called on a cancelled context")
		return nil, nil
	}
	if _, _, err := FirstNonEmpty(ctx, FallbackOrder, fetch); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReportCodeFromName(t *testing.T) {
	tests := []struct {
		name     string
		wantYear int
		wantCode ReportCode
		wantErr  bool
	}{
		{"사업보고서 (2023.12)", 2023, ReportAnnual, false},
		{"반기보고서 (2024.06)", 2024, ReportHalfYear, false},
		{"1분기보고서 (2024.03)", 2024, ReportQ1, false},
		{"3분기보고서 (2023.09)", 2023, ReportQ3, false},
		{"분기보고서 (2024.03)", 2024, ReportQ1, false},
		{"분기보고서 (2023.09)", 2023, ReportQ3, false},
		{"[기재정정]사업보고서 (2022.12)", 2022, ReportAnnual, false},
		{"분기보고서 (2023.06)", 0, "", true},
		{"주요사항보고서(자기주식취득결정)", 0, "", true},
		{"감사보고서 (2023.12)", 0, "", true},
	}

	for _, tt := range tests {
		year, code, err := ReportCodeFromName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownReportName) {
				t.Errorf("%q: expected ErrUnknownReportName, got %v", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.name, err)
			continue
		}
		if year != tt.wantYear || code != tt.wantCode {
			t.Errorf("%q: expected %d/%s, got %d/%s", tt.name, tt.wantYear, tt.wantCode, year, code)
		}
	}
}

func TestRatioValue_UnmarshalAcceptsNumbers(t *testing.T) {
	var got map[string]RatioValue
	body := `{"유동비율":{"current":"200.00","previous":0},"ROE":{"current":12.5,"previous":"3.10"}}`
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got["유동비율"].Current != "200.00" || got["유동비율"].Previous != "0" {
		t.Errorf("unexpected 유동비율: %+v", got["유동비율"])
	}
	if got["ROE"].Current != "12.5" || got["ROE"].Previous != "3.10" {
		t.Errorf("unexpected ROE: %+v", got["ROE"])
	}
}

func TestAnalysis_Empty(t *testing.T) {
	a := NewAnalysis()
	if !a.Empty() {
		t.Error("expected new analysis to be empty")
	}
	a.IncomeStatement["매출액"] = AmountPair{Current: 1}
	if a.Empty() {
		t.Error("expected analysis with one account to be non-empty")
	}
	var nilAnalysis *Analysis
	if !nilAnalysis.Empty() {
		t.Error("expected nil analysis to be empty")
	}
}
