// Package workbook loads and validates uploaded xlsx workbooks.
package workbook

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/ficopilot/internal/models"
)

var monthTokenRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Load parses an uploaded xlsx workbook into an immutable snapshot.
// Validation is eager: all missing sheets are enumerated in one error, then
// each sheet's header is checked against the column contract before any row
// is parsed.
func Load(r io.Reader, filename string) (*models.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	var missing []string
	for _, name := range RequiredSheets {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingSheetsError{Sheets: missing}
	}

	wb := &models.Workbook{
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}

	if wb.Actuals, err = readLedgerSheet(f, models.SheetActuals); err != nil {
		return nil, err
	}
	if wb.Budget, err = readLedgerSheet(f, models.SheetBudget); err != nil {
		return nil, err
	}
	if wb.Cash, err = readCashSheet(f); err != nil {
		return nil, err
	}
	if wb.FX, err = readFxSheet(f); err != nil {
		return nil, err
	}

	return wb, nil
}

// sheetColumns validates a sheet's header row against the column contract
// and returns the column index map plus the data rows.
func sheetColumns(f *excelize.File, sheet string) (map[string]int, [][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, &MissingColumnError{Sheet: sheet, Column: RequiredColumns[sheet][0]}
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}

	for _, col := range RequiredColumns[sheet] {
		if _, ok := idx[col]; !ok {
			return nil, nil, &MissingColumnError{Sheet: sheet, Column: col}
		}
	}

	return idx, rows[1:], nil
}

func readLedgerSheet(f *excelize.File, sheet string) ([]models.LedgerRow, error) {
	idx, rows, err := sheetColumns(f, sheet)
	if err != nil {
		return nil, err
	}

	out := make([]models.LedgerRow, 0, len(rows))
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		amount, err := parseNumber(cell(row, idx[ColAmount]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: column %q: %w", sheet, n+2, ColAmount, err)
		}
		out = append(out, models.LedgerRow{
			Month:           normalizeMonth(cell(row, idx[ColMonth])),
			Entity:          cell(row, idx[ColEntity]),
			AccountCategory: cell(row, idx[ColAccountCategory]),
			Amount:          amount,
			Currency:        cell(row, idx[ColCurrency]),
		})
	}
	return out, nil
}

func readCashSheet(f *excelize.File) ([]models.CashRow, error) {
	idx, rows, err := sheetColumns(f, models.SheetCash)
	if err != nil {
		return nil, err
	}

	out := make([]models.CashRow, 0, len(rows))
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		cash, err := parseNumber(cell(row, idx[ColCashUSD]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: column %q: %w", models.SheetCash, n+2, ColCashUSD, err)
		}
		out = append(out, models.CashRow{
			Month:   normalizeMonth(cell(row, idx[ColMonth])),
			Entity:  cell(row, idx[ColEntity]),
			CashUSD: cash,
		})
	}
	return out, nil
}

func readFxSheet(f *excelize.File) ([]models.FxRow, error) {
	idx, rows, err := sheetColumns(f, models.SheetFX)
	if err != nil {
		return nil, err
	}

	out := make([]models.FxRow, 0, len(rows))
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		rate, err := parseNumber(cell(row, idx[ColRateToUSD]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: column %q: %w", models.SheetFX, n+2, ColRateToUSD, err)
		}
		out = append(out, models.FxRow{
			Month:     normalizeMonth(cell(row, idx[ColMonth])),
			Currency:  cell(row, idx[ColCurrency]),
			RateToUSD: rate,
		})
	}
	return out, nil
}

// cell returns the trimmed value at i, tolerating short rows (excelize drops
// trailing empty cells).
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q", s)
	}
	return v, nil
}

// monthLayouts are the date renderings excelize produces for real date cells.
var monthLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"2006/01/02",
	"Jan-06",
}

// normalizeMonth maps a month cell to "YYYY-MM". Plain "YYYY-MM" strings pass
// through; date-formatted cells collapse to their month. Anything else is
// kept verbatim — an unrecognized month simply never matches a question.
func normalizeMonth(s string) string {
	if monthTokenRe.MatchString(s) {
		return s
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01")
		}
	}
	return s
}
