// Package interfaces defines service contracts for FiCopilot
package interfaces

import (
	"io"
	"time"

	"github.com/bobmcallan/ficopilot/internal/models"
)

// ReportService generates the fixed financial reports. Every method is a
// read-only aggregation over the workbook snapshot: invoking it twice with
// the same inputs yields byte-identical text.
type ReportService interface {
	// RevenueVsBudget compares actual and budgeted revenue for a month
	RevenueVsBudget(wb *models.Workbook, month string) *models.Answer

	// GrossMargin reports revenue, COGS and gross margin for a month
	GrossMargin(wb *models.Workbook, month string) *models.Answer

	// OpexBreakdown groups operating expenses by category for a month
	OpexBreakdown(wb *models.Workbook, month string) *models.Answer

	// EBITDA reports revenue - COGS - opex for a month
	EBITDA(wb *models.Workbook, month string) *models.Answer

	// CashRunway estimates months of cash left at the trailing burn rate
	CashRunway(wb *models.Workbook, month string) *models.Answer

	// Revenue is the plain revenue lookup for a month
	Revenue(wb *models.Workbook, month string) *models.Answer
}

// QueryService answers one free-text question against a workbook snapshot.
type QueryService interface {
	Answer(wb *models.Workbook, question string) *models.Answer
}

// SessionStore holds per-upload workbook sessions. Each session owns an
// isolated snapshot; there is no cross-session sharing of uploaded data.
// Create, Get and Replace return copies of the session record, so callers
// may read them freely while other requests mutate the same session.
type SessionStore interface {
	// Create registers a new session around a workbook snapshot
	Create(wb *models.Workbook) *models.Session

	// Get returns a copy of a session and marks it active
	Get(id string) (*models.Session, bool)

	// Replace swaps a session's workbook for a re-uploaded one
	Replace(id string, wb *models.Workbook) (*models.Session, bool)

	// Delete discards a session
	Delete(id string) bool

	// PruneIdle drops sessions idle longer than ttl, returning the count
	PruneIdle(ttl time.Duration) int

	// Count returns the number of live sessions
	Count() int
}

// ChartRenderer rasterizes a chart spec to an image stream.
type ChartRenderer interface {
	Render(spec *models.ChartSpec, w io.Writer) error
}
