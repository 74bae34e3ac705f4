package query

import (
	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/interfaces"
	"github.com/bobmcallan/ficopilot/internal/models"
)

// Fixed user-facing replies. These are contract strings, not errors.
const (
	MsgMonthNotUnderstood = "Sorry, I couldn't understand the month."
	MsgHelp               = "I can answer about: revenue, budget, margin, opex, EBITDA, cash runway"
)

// Service implements QueryService
type Service struct {
	reports  interfaces.ReportService
	logger   *common.Logger
	handlers map[Intent]func(*models.Workbook, string) *models.Answer
}

// NewService creates a new query service over a report service.
func NewService(reports interfaces.ReportService, logger *common.Logger) *Service {
	s := &Service{
		reports: reports,
		logger:  logger,
	}
	s.handlers = map[Intent]func(*models.Workbook, string) *models.Answer{
		IntentRevenueVsBudget: reports.RevenueVsBudget,
		IntentGrossMargin:     reports.GrossMargin,
		IntentOpexBreakdown:   reports.OpexBreakdown,
		IntentEBITDA:          reports.EBITDA,
		IntentCashRunway:      reports.CashRunway,
		IntentRevenue:         reports.Revenue,
	}
	return s
}

// Answer resolves the month, classifies the question and dispatches to the
// matching report generator. Month resolution failure short-circuits before
// any keyword matching, whatever keywords the question contains.
func (s *Service) Answer(wb *models.Workbook, question string) *models.Answer {
	month, ok := ExtractMonth(question)
	if !ok {
		return &models.Answer{Text: MsgMonthNotUnderstood}
	}

	intent := ClassifyIntent(question)
	s.logger.Debug().
		Str("month", month).
		Str("intent", string(intent)).
		Msg("Question classified")

	handler, ok := s.handlers[intent]
	if !ok {
		return &models.Answer{Text: MsgHelp}
	}
	return handler(wb, month)
}
