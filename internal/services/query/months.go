// Package query resolves free-text questions: it extracts the month being
// asked about, classifies the question into an intent, and dispatches to the
// matching report generator.
package query

import (
	"regexp"
	"strings"
)

var monthNumbers = map[string]string{
	"january": "01", "february": "02", "march": "03",
	"april": "04", "may": "05", "june": "06",
	"july": "07", "august": "08", "september": "09",
	"october": "10", "november": "11", "december": "12",
}

var (
	namedMonthRe   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})`)
	numericMonthRe = regexp.MustCompile(`\d{4}-\d{2}`)
)

// ExtractMonth parses a question into a canonical "YYYY-MM" token.
// A named month plus year ("June 2025") always wins over a numeric token
// ("2025-06"), even when the numeric token appears earlier in the text; only
// the first match of each pattern is considered. The month is not checked
// against the workbook — a month with no data simply sums to zero downstream.
func ExtractMonth(question string) (string, bool) {
	if m := namedMonthRe.FindStringSubmatch(question); m != nil {
		return m[2] + "-" + monthNumbers[strings.ToLower(m[1])], true
	}
	if m := numericMonthRe.FindString(question); m != "" {
		return m, true
	}
	return "", false
}
