package finance

import "math"

// Table is a numeric matrix indexed by fiscal year (rows) and line-item
// or ratio name (columns). Missing cells are simply absent; arithmetic on
// them propagates absence. Unit is the statement's figure unit, kept out
// of the matrix.
type Table struct {
	Years   []int
	Columns []string
	Cells   map[string]map[int]float64
	Unit    string
}

// Value returns the cell for (column, year) and whether it is present.
func (t *Table) Value(column string, year int) (float64, bool) {
	col, ok := t.Cells[column]
	if !ok {
		return 0, false
	}
	v, ok := col[year]
	return v, ok
}

// set creates the column on first write, appending it to the order.
func (t *Table) set(column string, year int, v float64) {
	col, ok := t.Cells[column]
	if !ok {
		col = make(map[int]float64)
		t.Cells[column] = col
		t.Columns = append(t.Columns, column)
	}
	col[year] = v
}

// Combine joins two statement tables on the union of their years:
// balance-sheet columns first, income-statement columns after, row order
// from the balance sheet with income-only years appended. Cells missing
// on either side stay missing. The combined table carries the
// balance-sheet unit.
func Combine(balance, income *Table) *Table {
	out := &Table{
		Years: append([]int(nil), balance.Years...),
		Cells: make(map[string]map[int]float64),
		Unit:  balance.Unit,
	}
	present := make(map[int]bool, len(out.Years))
	for _, y := range out.Years {
		present[y] = true
	}
	for _, y := range income.Years {
		if !present[y] {
			present[y] = true
			out.Years = append(out.Years, y)
		}
	}

	for _, src := range []*Table{balance, income} {
		for _, col := range src.Columns {
			for year, v := range src.Cells[col] {
				out.set(col, year, v)
			}
		}
	}
	return out
}

// Round rounds every cell to two decimal places in place.
func (t *Table) Round() {
	for _, col := range t.Cells {
		for year, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			col[year] = math.Round(v*100) / 100
		}
	}
}
