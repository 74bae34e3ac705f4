package report

import (
	"sort"
	"time"

	"github.com/bobmcallan/ficopilot/internal/models"
)

// sumCategory totals amounts for one month and one exact account category.
// Rows in unrecognized categories never contribute to any aggregate.
func sumCategory(rows []models.LedgerRow, month, category string) float64 {
	var total float64
	for _, r := range rows {
		if r.Month == month && r.AccountCategory == category {
			total += r.Amount
		}
	}
	return total
}

// sumOpex totals amounts across all Opex:* categories for one month.
func sumOpex(rows []models.LedgerRow, month string) float64 {
	var total float64
	for _, r := range rows {
		if r.Month == month && r.IsOpex() {
			total += r.Amount
		}
	}
	return total
}

// opexGroup is one operating-expense category total.
type opexGroup struct {
	Category string
	Amount   float64
}

// opexByCategory sums each Opex:* category exactly once for a month and
// returns the groups sorted descending by amount. The sort is stable: ties
// keep first-appearance order.
func opexByCategory(rows []models.LedgerRow, month string) []opexGroup {
	index := make(map[string]int)
	var groups []opexGroup
	for _, r := range rows {
		if r.Month != month || !r.IsOpex() {
			continue
		}
		i, ok := index[r.AccountCategory]
		if !ok {
			i = len(groups)
			index[r.AccountCategory] = i
			groups = append(groups, opexGroup{Category: r.AccountCategory})
		}
		groups[i].Amount += r.Amount
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount > groups[j].Amount
	})
	return groups
}

// ebitdaFor returns the month's revenue, COGS, total opex and their EBITDA.
// Months with no rows sum to zero across the board.
func ebitdaFor(rows []models.LedgerRow, month string) (revenue, cogs, opex, ebitda float64) {
	revenue = sumCategory(rows, month, models.CategoryRevenue)
	cogs = sumCategory(rows, month, models.CategoryCOGS)
	opex = sumOpex(rows, month)
	return revenue, cogs, opex, revenue - cogs - opex
}

// shiftMonth moves a "YYYY-MM" token by delta calendar months. An
// unparseable token shifts to a token that matches no data.
func shiftMonth(month string, delta int) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, delta, 0).Format("2006-01")
}

// burnWindow returns the three-month burn window ending at month,
// chronological order.
func burnWindow(month string) [3]string {
	return [3]string{shiftMonth(month, -2), shiftMonth(month, -1), month}
}

// cashFor returns the cash balance for an exact month. The first matching
// row wins; entity is not filtered.
func cashFor(rows []models.CashRow, month string) (float64, bool) {
	for _, r := range rows {
		if r.Month == month {
			return r.CashUSD, true
		}
	}
	return 0, false
}

// cashSeries returns a copy of the cash rows sorted by month.
func cashSeries(rows []models.CashRow) []models.CashRow {
	out := make([]models.CashRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}
