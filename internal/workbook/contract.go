package workbook

import "github.com/bobmcallan/ficopilot/internal/models"

// Column names shared across sheets.
const (
	ColMonth           = "month"
	ColEntity          = "entity"
	ColAccountCategory = "account_category"
	ColAmount          = "amount"
	ColCurrency        = "currency"
	ColCashUSD         = "cash_usd"
	ColRateToUSD       = "rate_to_usd"
)

// RequiredSheets lists the four sheet names every upload must contain,
// case-sensitive, in contract order.
var RequiredSheets = []string{
	models.SheetActuals,
	models.SheetBudget,
	models.SheetCash,
	models.SheetFX,
}

// RequiredColumns maps each required sheet to its required header names,
// case-sensitive, in contract order.
var RequiredColumns = map[string][]string{
	models.SheetActuals: {ColMonth, ColEntity, ColAccountCategory, ColAmount, ColCurrency},
	models.SheetBudget:  {ColMonth, ColEntity, ColAccountCategory, ColAmount, ColCurrency},
	models.SheetCash:    {ColMonth, ColEntity, ColCashUSD},
	models.SheetFX:      {ColMonth, ColCurrency, ColRateToUSD},
}

// SheetContract describes one sheet of the upload contract.
type SheetContract struct {
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
}

// Contract returns the upload contract in sheet order, for the format
// reference endpoint. It is derived from the same tables the validator uses.
func Contract() []SheetContract {
	out := make([]SheetContract, 0, len(RequiredSheets))
	for _, sheet := range RequiredSheets {
		out = append(out, SheetContract{Sheet: sheet, Columns: RequiredColumns[sheet]})
	}
	return out
}
