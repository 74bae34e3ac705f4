package common

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders a dollar amount rounded to whole dollars with
// thousands separators. Negative values render as "$-12,345".
func FormatMoney(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// FormatPct renders a percentage with one decimal place.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatMonthsCount renders a month count with one decimal place, e.g. "6.0 months".
func FormatMonthsCount(v float64) string {
	return fmt.Sprintf("%.1f months", v)
}
