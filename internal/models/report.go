package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReportCode identifies one of the four periodic filings OpenDART serves
// statements for.
type ReportCode string

const (
	ReportAnnual   ReportCode = "11011"
	ReportHalfYear ReportCode = "11012"
	ReportQ1       ReportCode = "11013"
	ReportQ3       ReportCode = "11014"
)

var (
	ErrInvalidReportCode = errors.New("invalid report code")
	ErrInvalidYear       = errors.New("invalid business year")
	ErrUnknownReportName = errors.New("report name does not match a periodic report")
)

// FallbackOrder is the priority in which report types are tried when the
// requested one has no data: the most comprehensive filing first.
var FallbackOrder = []ReportCode{ReportAnnual, ReportQ3, ReportHalfYear, ReportQ1}

// ParseReportCode validates a reprt_code query value.
func ParseReportCode(s string) (ReportCode, error) {
	code := ReportCode(strings.TrimSpace(s))
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportCode, s)
	}
	return code, nil
}

// Valid reports whether c is one of the four known report codes.
func (c ReportCode) Valid() bool {
	switch c {
	case ReportAnnual, ReportHalfYear, ReportQ1, ReportQ3:
		return true
	}
	return false
}

// Label returns the Korean report title, e.g. "사업보고서".
func (c ReportCode) Label() string {
	switch c {
	case ReportAnnual:
		return "사업보고서"
	case ReportHalfYear:
		return "반기보고서"
	case ReportQ1:
		return "1분기보고서"
	case ReportQ3:
		return "3분기보고서"
	default:
		return string(c)
	}
}

func (c ReportCode) String() string { return string(c) }

// ParseYear validates a four digit bsns_year value.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return year, nil
}

// PeriodLabel renders "2023년 사업보고서".
func PeriodLabel(year int, code ReportCode) string {
	return fmt.Sprintf("%d년 %s", year, code.Label())
}

// PreviousPeriodLabel renders the comparison period: the prior year with the
// same report type.
func PreviousPeriodLabel(year int, code ReportCode) string {
	return PeriodLabel(year-1, code)
}

// FirstNonEmpty calls fetch for each code in order and returns the first
// non-empty result along with the code that produced it. A fetch error stops
// the iteration. When every code comes back empty the result is nil and the
// returned code is empty.
func FirstNonEmpty[T any](ctx context.Context, order []ReportCode, fetch func(context.Context, ReportCode) ([]T, error)) ([]T, ReportCode, error) {
	for _, code := range order {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		items, err := fetch(ctx, code)
		if err != nil {
			return nil, "", fmt.Errorf("report %s: %w", code, err)
		}
		if len(items) > 0 {
			return items, code, nil
		}
	}
	return nil, "", nil
}

var (
	reportYearPattern  = regexp.MustCompile(`\d{4}`)
	reportMonthPattern = regexp.MustCompile(`\((\d{4})\.(\d{2})\)`)
)

// ReportCodeFromName resolves a disclosure title such as
// "사업보고서 (2023.12)" or "분기보고서 (2024.03)" to its business year and
// report code.
func ReportCodeFromName(name string) (int, ReportCode, error) {
	yearText := reportYearPattern.FindString(name)
	if yearText == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownReportName, name)
	}
	year, _ := strconv.Atoi(yearText)

	switch {
	case strings.Contains(name, "사업보고서"):
		return year, ReportAnnual, nil
	case strings.Contains(name, "반기보고서"):
		return year, ReportHalfYear, nil
	case strings.Contains(name, "1분기보고서"):
		return year, ReportQ1, nil
	case strings.Contains(name, "3분기보고서"):
		return year, ReportQ3, nil
	case strings.Contains(name, "분기보고서"):
		m := reportMonthPattern.FindStringSubmatch(name)
		if m == nil {
			break
		}
		year, _ = strconv.Atoi(m[1])
		switch m[2] {
		case "03":
			return year, ReportQ1, nil
		case "09":
			return year, ReportQ3, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnknownReportName, name)
}
