package finance

// Ratio column names as they appear in the rendered table. The labels are
// part of the report's external contract and are kept verbatim, including
// the two whose formulas do not match their textbook namesakes.
const (
	ColDebtToEquity    = "Debt-to-Equity Ratio"
	ColCurrentRatio    = "Current Ratio"
	ColReturnOnEquity  = "Return on Equity (ROE)"
	ColOperatingMargin = "Operating Profit Margin"
	ColNetProfitMargin = "Net Profit margin"
)

// Line-item column names expected from the statement questions.
const (
	ColTotalAssets      = "Total Assets"
	ColCurrentAssets    = "Total Current Assets"
	ColTotalLiabilities = "Total Liabilities"
	ColShareholdersEq   = "Total Shareholders Equity"
	ColCurrentLiabs     = "Total Current Liabilities"
	ColNetSales         = "Net Sales or Revenue"
	ColOperatingIncome  = "Operating Income"
	ColNetIncome        = "Net Income"
)

// ratioDef is one derived column: numerator over denominator per year.
type ratioDef struct {
	name        string
	numerator   string
	denominator string
}

// Formulas reproduced exactly as shipped, not corrected.
var ratioDefs = []ratioDef{
	{ColDebtToEquity, ColTotalLiabilities, ColShareholdersEq},
	{ColCurrentRatio, ColCurrentAssets, ColCurrentLiabs},
	{ColReturnOnEquity, ColTotalLiabilities, ColCurrentLiabs},
	{ColOperatingMargin, ColNetIncome, ColShareholdersEq},
	{ColNetProfitMargin, ColOperatingIncome, ColNetSales},
}

// AddRatios appends the five derived ratio columns to the combined table.
// A year missing either operand gets no cell for that ratio.
func AddRatios(t *Table) {
	for _, def := range ratioDefs {
		for _, year := range t.Years {
			num, okN := t.Value(def.numerator, year)
			den, okD := t.Value(def.denominator, year)
			if !okN || !okD {
				continue
			}
			t.set(def.name, year, num/den)
		}
	}
}
