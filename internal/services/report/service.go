// Package report implements the fixed financial report generators. Each
// generator reads one immutable workbook snapshot and produces an answer:
// a text summary plus, for some reports, a render-ready chart spec.
package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/models"
)

// Service implements ReportService
type Service struct {
	logger *common.Logger
}

// NewService creates a new report service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// RevenueVsBudget compares actual revenue against budgeted revenue for a
// month. A zero budget yields a 0.0% variance, never a division error.
func (s *Service) RevenueVsBudget(wb *models.Workbook, month string) *models.Answer {
	actual := sumCategory(wb.Actuals, month, models.CategoryRevenue)
	budget := sumCategory(wb.Budget, month, models.CategoryRevenue)

	variance := actual - budget
	variancePct := 0.0
	if budget != 0 {
		variancePct = variance / budget * 100
	}

	text := fmt.Sprintf("Revenue vs Budget for %s:\n    Actual: %s\n    Budget: %s\n    Variance: %s (%s)",
		month,
		common.FormatMoney(actual),
		common.FormatMoney(budget),
		common.FormatMoney(variance),
		common.FormatPct(variancePct))

	return &models.Answer{
		Text:  text,
		Chart: revenueVsBudgetChart(month, actual, budget),
	}
}

// GrossMargin reports revenue, COGS and gross margin for a month. Zero
// revenue yields a 0.0% margin.
func (s *Service) GrossMargin(wb *models.Workbook, month string) *models.Answer {
	revenue := sumCategory(wb.Actuals, month, models.CategoryRevenue)
	cogs := sumCategory(wb.Actuals, month, models.CategoryCOGS)

	margin := revenue - cogs
	marginPct := 0.0
	if revenue != 0 {
		marginPct = margin / revenue * 100
	}

	text := fmt.Sprintf("Gross Margin for %s:\n    Total Revenue: %s\n    Total COGS: %s\n    Gross Margin: %s (%s)",
		month,
		common.FormatMoney(revenue),
		common.FormatMoney(cogs),
		common.FormatMoney(margin),
		common.FormatPct(marginPct))

	return &models.Answer{
		Text:  text,
		Chart: grossMarginChart(month, revenue, cogs, margin),
	}
}

// OpexBreakdown groups the month's Opex:* rows by category, largest first.
// A month with zero total opex is a "no data" answer, not an error.
func (s *Service) OpexBreakdown(wb *models.Workbook, month string) *models.Answer {
	groups := opexByCategory(wb.Actuals, month)

	var total float64
	for _, g := range groups {
		total += g.Amount
	}
	if total == 0 {
		return &models.Answer{Text: fmt.Sprintf("No Opex data available for %s.", month)}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Opex Breakdown for %s (Total: %s):", month, common.FormatMoney(total))
	for _, g := range groups {
		pct := g.Amount / total * 100
		fmt.Fprintf(&sb, "\n  - %s: %s (%s)", g.Category, common.FormatMoney(g.Amount), common.FormatPct(pct))
	}

	return &models.Answer{
		Text:  sb.String(),
		Chart: opexPieChart(month, groups),
	}
}

// EBITDA reports revenue - COGS - opex for a month. Text only, no chart.
func (s *Service) EBITDA(wb *models.Workbook, month string) *models.Answer {
	revenue, cogs, opex, ebitda := ebitdaFor(wb.Actuals, month)

	text := fmt.Sprintf("EBITDA for %s:\n    Revenue: %s\n    COGS: %s\n    Opex: %s\n    EBITDA: %s",
		month,
		common.FormatMoney(revenue),
		common.FormatMoney(cogs),
		common.FormatMoney(opex),
		common.FormatMoney(ebitda))

	return &models.Answer{Text: text}
}

// CashRunway estimates months of cash remaining at the average burn over the
// target month and the two preceding calendar months. A month absent from
// actuals contributes a burn of zero — all three window values are always
// averaged. Non-positive average burn means the company is profitable.
func (s *Service) CashRunway(wb *models.Workbook, month string) *models.Answer {
	currentCash, ok := cashFor(wb.Cash, month)
	if !ok {
		return &models.Answer{Text: "No cash data available for this month."}
	}

	var burns [3]float64
	for i, m := range burnWindow(month) {
		_, _, _, ebitda := ebitdaFor(wb.Actuals, m)
		burns[i] = -ebitda
	}
	avgBurn := (burns[0] + burns[1] + burns[2]) / 3

	chart := cashTrendChart(wb.Cash)

	if avgBurn <= 0 {
		return &models.Answer{
			Text:  fmt.Sprintf("Company is profitable (no burn). Current Cash: %s", common.FormatMoney(currentCash)),
			Chart: chart,
		}
	}

	runway := currentCash / avgBurn
	text := fmt.Sprintf("Cash Runway for %s:\nCurrent Cash: %s\nAvg Monthly Burn: %s\nRunway: %s",
		month,
		common.FormatMoney(currentCash),
		common.FormatMoney(avgBurn),
		common.FormatMonthsCount(runway))

	return &models.Answer{Text: text, Chart: chart}
}

// Revenue is the plain revenue lookup for a month. Text only, no chart.
func (s *Service) Revenue(wb *models.Workbook, month string) *models.Answer {
	revenue := sumCategory(wb.Actuals, month, models.CategoryRevenue)
	return &models.Answer{
		Text: fmt.Sprintf("Revenue for %s: %s", month, common.FormatMoney(revenue)),
	}
}
