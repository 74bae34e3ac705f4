// Package models defines data structures for FiCopilot
package models

import (
	"strings"
	"time"
)

// Account categories recognized by the report calculators. Rows carrying any
// other category are excluded from every aggregate.
const (
	CategoryRevenue = "Revenue"
	CategoryCOGS    = "COGS"
	OpexPrefix      = "Opex:"
)

// Workbook sheet names. The upload contract requires all four, case-sensitive.
const (
	SheetActuals = "actuals"
	SheetBudget  = "budget"
	SheetCash    = "cash"
	SheetFX      = "fx"
)

// LedgerRow is one monthly ledger entry. Both the actuals and budget sheets
// share this shape.
type LedgerRow struct {
	Month           string  `json:"month"` // "YYYY-MM"
	Entity          string  `json:"entity"`
	AccountCategory string  `json:"account_category"` // Revenue, COGS, or Opex:<name>
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// IsOpex reports whether the row belongs to an operating-expense category.
func (r LedgerRow) IsOpex() bool {
	return strings.HasPrefix(r.AccountCategory, OpexPrefix)
}

// CashRow is one monthly cash balance. At most one row per month is assumed;
// the entity column is carried but not filtered on.
type CashRow struct {
	Month   string  `json:"month"`
	Entity  string  `json:"entity"`
	CashUSD float64 `json:"cash_usd"`
}

// FxRow is one monthly exchange rate. The fx sheet is part of the upload
// contract and is validated and parsed, but no calculator consumes it yet.
type FxRow struct {
	Month     string  `json:"month"`
	Currency  string  `json:"currency"`
	RateToUSD float64 `json:"rate_to_usd"`
}

// Workbook is the full set of four validated tables loaded from one upload.
// It is never mutated after load; every question runs against this snapshot.
type Workbook struct {
	Actuals []LedgerRow `json:"actuals"`
	Budget  []LedgerRow `json:"budget"`
	Cash    []CashRow   `json:"cash"`
	FX      []FxRow     `json:"fx"`

	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// WorkbookSummary describes an upload for user feedback.
type WorkbookSummary struct {
	Filename      string `json:"filename"`
	Records       int    `json:"records"`        // actuals row count
	EarliestMonth string `json:"earliest_month"` // min actuals month
	LatestMonth   string `json:"latest_month"`   // max actuals month
}

// Summary returns the actuals row count and month range for upload feedback.
func (w *Workbook) Summary() WorkbookSummary {
	s := WorkbookSummary{
		Filename: w.Filename,
		Records:  len(w.Actuals),
	}
	for _, row := range w.Actuals {
		if s.EarliestMonth == "" || row.Month < s.EarliestMonth {
			s.EarliestMonth = row.Month
		}
		if row.Month > s.LatestMonth {
			s.LatestMonth = row.Month
		}
	}
	return s
}
