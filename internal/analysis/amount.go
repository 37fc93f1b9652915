// Package analysis turns raw OpenDART line items into the normalized
// statement view and the eight derived financial ratios.
package analysis

import (
	"strconv"
	"strings"
)

// ParseAmount converts an OpenDART amount string such as "-1,234,567" into an
// integer. Empty, "-" and otherwise unparseable input yields 0.
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
