// Package spend analyzes spend-cube workbooks: total spend with a
// supplier per fiscal year, pivoted by purchasing segment and by supplier
// entity.
package spend

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Row is one spend line from the workbook.
type Row struct {
	FiscalYear int
	Supplier   string
	Segment    string
	SpendEUR   float64
}

// Cube holds the spend rows matching one supplier company.
type Cube struct {
	Company string
	Path    string
	Rows    []Row
}

// expected workbook headers
const (
	headerFiscalYear = "fiscal_year"
	headerSupplier   = "supplier_name"
	headerSegment    = "segment_code_and_text"
	headerSpend      = "spend_in_eur"
)

// Load reads a spend workbook and keeps the rows whose supplier name
// contains the company name (case-insensitive).
func Load(path, company string) (*Cube, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spend: open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("spend: workbook %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("spend: workbook %s has no data rows", path)
	}

	idx, err := headerIndex(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(company)
	cube := &Cube{Company: company, Path: path}
	for _, row := range sheet.Rows[1:] {
		supplier := cellString(row, idx[headerSupplier])
		if supplier == "" || !strings.Contains(strings.ToLower(supplier), needle) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(cellString(row, idx[headerFiscalYear])))
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(cellString(row, idx[headerSpend])), 64)
		if err != nil {
			continue
		}
		cube.Rows = append(cube.Rows, Row{
			FiscalYear: year,
			Supplier:   supplier,
			Segment:    cellString(row, idx[headerSegment]),
			SpendEUR:   amount,
		})
	}
	return cube, nil
}

func headerIndex(header *xlsx.Row) (map[string]int, error) {
	idx := make(map[string]int)
	for i, cell := range header.Cells {
		idx[strings.TrimSpace(strings.ToLower(cell.String()))] = i
	}
	for _, want := range []string{headerFiscalYear, headerSupplier, headerSegment, headerSpend} {
		if _, ok := idx[want]; !ok {
			return nil, eris.Errorf("spend: workbook missing column %q", want)
		}
	}
	return idx, nil
}

func cellString(row *xlsx.Row, i int) string {
	if i < 0 || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i].String()
}

// YearTotal is the summed spend for one fiscal year.
type YearTotal struct {
	FiscalYear int
	SpendEUR   float64
}

// YearlyTotals sums spend per fiscal year, ascending by year, rounded to
// two decimals.
func (c *Cube) YearlyTotals() []YearTotal {
	byYear := make(map[int]float64)
	for _, r := range c.Rows {
		byYear[r.FiscalYear] += r.SpendEUR
	}
	out := make([]YearTotal, 0, len(byYear))
	for year, total := range byYear {
		out = append(out, YearTotal{FiscalYear: year, SpendEUR: round2(total)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out
}

// Dimension selects the pivot entity.
type Dimension int

const (
	BySupplier Dimension = iota
	BySegment
)

// PivotRow is one entity's spend by year plus its total.
type PivotRow struct {
	Entity   string
	ByYear   map[int]float64
	TotalEUR float64
}

// Pivot groups spend by entity and fiscal year, rows sorted by total
// spend descending.
type Pivot struct {
	Years []int
	Rows  []PivotRow
}

// PivotBy builds the spend pivot over the chosen dimension.
func (c *Cube) PivotBy(dim Dimension) *Pivot {
	key := func(r Row) string {
		if dim == BySegment {
			return r.Segment
		}
		return r.Supplier
	}

	years := make(map[int]bool)
	byEntity := make(map[string]map[int]float64)
	for _, r := range c.Rows {
		years[r.FiscalYear] = true
		k := key(r)
		if byEntity[k] == nil {
			byEntity[k] = make(map[int]float64)
		}
		byEntity[k][r.FiscalYear] += r.SpendEUR
	}

	p := &Pivot{}
	for y := range years {
		p.Years = append(p.Years, y)
	}
	sort.Ints(p.Years)

	for entity, byYear := range byEntity {
		row := PivotRow{Entity: entity, ByYear: byYear}
		for _, v := range byYear {
			row.TotalEUR += v
		}
		p.Rows = append(p.Rows, row)
	}
	sort.SliceStable(p.Rows, func(i, j int) bool { return p.Rows[i].TotalEUR > p.Rows[j].TotalEUR })
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a euro amount with space-grouped thousands and no
// decimals, e.g. 1234567.8 → "1 234 568".
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
