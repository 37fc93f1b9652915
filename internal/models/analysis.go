package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AmountPair holds the parsed current and prior period amounts of one account.
type AmountPair struct {
	Current  int64 `json:"current"`
	Previous int64 `json:"previous"`
}

// RatioValue holds a ratio as fixed two-decimal strings, e.g. "66.67".
type RatioValue struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
}

// UnmarshalJSON accepts both string and numeric sides, since browser clients
// send the previous side as a bare 0.
func (v *RatioValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Current  json.RawMessage `json:"current"`
		Previous json.RawMessage `json:"previous"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	current, err := decimalText(raw.Current)
	if err != nil {
		return fmt.Errorf("ratio current: %w", err)
	}
	previous, err := decimalText(raw.Previous)
	if err != nil {
		return fmt.Errorf("ratio previous: %w", err)
	}
	v.Current, v.Previous = current, previous
	return nil
}

func decimalText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Analysis is the normalized statement view plus derived ratios for one
// (company, year, report) request.
type Analysis struct {
	BalanceSheet    map[string]AmountPair `json:"balanceSheet"`
	IncomeStatement map[string]AmountPair `json:"incomeStatement"`
	Ratio           map[string]RatioValue `json:"ratio"`
}

// NewAnalysis returns an Analysis with all mappings allocated.
func NewAnalysis() *Analysis {
	return &Analysis{
		BalanceSheet:    make(map[string]AmountPair),
		IncomeStatement: make(map[string]AmountPair),
		Ratio:           make(map[string]RatioValue),
	}
}

// Empty reports whether no statement account was extracted.
func (a *Analysis) Empty() bool {
	return a == nil || (len(a.BalanceSheet) == 0 && len(a.IncomeStatement) == 0)
}
