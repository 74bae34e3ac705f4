package report

import (
	"fmt"

	"github.com/bobmcallan/ficopilot/internal/models"
)

// Chart palette, one hex per role.
const (
	colorActual      = "#2E86AB"
	colorBudget      = "#A23B72"
	colorRevenue     = "#06A77D"
	colorCOGS        = "#D4636D"
	colorGrossProfit = "#F18F01"
	colorCash        = "#06A77D"
)

// revenueVsBudgetChart builds the grouped two-bar Actual/Budget spec.
func revenueVsBudgetChart(month string, actual, budget float64) *models.ChartSpec {
	return &models.ChartSpec{
		Type:   models.ChartTypeBar,
		Title:  fmt.Sprintf("Revenue vs Budget - %s", month),
		YLabel: "Amount ($)",
		Series: []models.ChartSeries{
			{Name: "Actual", Color: colorActual, Points: []models.ChartPoint{{Label: "Revenue", Value: actual}}},
			{Name: "Budget", Color: colorBudget, Points: []models.ChartPoint{{Label: "Revenue", Value: budget}}},
		},
	}
}

// grossMarginChart builds the three-bar Revenue/COGS/Gross Profit spec.
func grossMarginChart(month string, revenue, cogs, margin float64) *models.ChartSpec {
	return &models.ChartSpec{
		Type:   models.ChartTypeBar,
		Title:  fmt.Sprintf("Gross Margin - %s", month),
		YLabel: "Amount ($)",
		Series: []models.ChartSeries{
			{Name: "Revenue", Color: colorRevenue, Points: []models.ChartPoint{{Value: revenue}}},
			{Name: "COGS", Color: colorCOGS, Points: []models.ChartPoint{{Value: cogs}}},
			{Name: "Gross Profit", Color: colorGrossProfit, Points: []models.ChartPoint{{Value: margin}}},
		},
	}
}

// opexPieChart builds a pie spec with one slice per Opex category.
func opexPieChart(month string, groups []opexGroup) *models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Category, Value: g.Amount})
	}
	return &models.ChartSpec{
		Type:  models.ChartTypePie,
		Title: fmt.Sprintf("Opex Breakdown - %s", month),
		Series: []models.ChartSeries{
			{Points: points},
		},
	}
}

// cashTrendChart builds the full cash-balance time series, sorted by month.
// The whole series is charted regardless of which month was asked about.
func cashTrendChart(rows []models.CashRow) *models.ChartSpec {
	series := cashSeries(rows)
	points := make([]models.ChartPoint, 0, len(series))
	for _, r := range series {
		points = append(points, models.ChartPoint{Label: r.Month, Value: r.CashUSD})
	}
	return &models.ChartSpec{
		Type:   models.ChartTypeLine,
		Title:  "Cash Position Over Time",
		XLabel: "Month",
		YLabel: "Cash (USD)",
		Series: []models.ChartSeries{
			{Name: "Cash", Color: colorCash, Points: points},
		},
	}
}
