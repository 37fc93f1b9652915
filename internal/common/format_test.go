package common

import "testing"

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0원"},
		{9999, "9,999원"},
		{-5000, "-5,000원"},
		{10000, "1만원"},
		{12345678, "1,234.6만원"},
		{99999, "10만원"},
		{100000000, "1억원"},
		{120000000, "1.2억원"},
		{250000000, "2.5억원"},
		{-350000000, "-3.5억원"},
		{1500000000000, "1.5조원"},
		{302231400000000, "302.2조원"},
		{1234500000000000, "1,234.5조원"},
	}

	for _, tt := range tests {
		if got := FormatKRW(tt.amount, FormatOptions{}); got != tt.want {
			t.Errorf("FormatKRW(%d): expected %s, got %s", tt.amount, tt.want, got)
		}
	}
}

func TestFormatKRW_Short(t *testing.T) {
	if got := FormatKRW(250000000, FormatOptions{Short: true}); got != "2.5억" {
		t.Errorf("expected 2.5억, got %s", got)
	}
	if got := FormatKRW(1234, FormatOptions{Short: true}); got != "1,234" {
		t.Errorf("expected 1,234, got %s", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%d): expected %s, got %s", n, want, got)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("20240315"); got != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %s", got)
	}
	if got := FormatDate("2024"); got != "2024" {
		t.Errorf("expected input unchanged, got %s", got)
	}
}

func TestChangeRate(t *testing.T) {
	if _, ok := ChangeRate(100, 0); ok {
		t.Error("expected no rate for a zero previous value")
	}
	if got, _ := ChangeRate(150000, 120000); got != "25.0" {
		t.Errorf("expected 25.0, got %s", got)
	}
	if got, _ := ChangeRate(-50, -100); got != "50.0" {
		t.Errorf("expected 50.0, got %s", got)
	}
	if got, _ := ChangeRate(80, 100); got != "-20.0" {
		t.Errorf("expected -20.0, got %s", got)
	}
}
