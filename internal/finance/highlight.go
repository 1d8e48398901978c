package finance

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules is the alert-rule set applied to a combined table. It is loaded
// once at startup and passed in explicitly; the engine never reaches for
// process-wide state.
type Rules struct {
	Decreasing DecreasingRule  `yaml:"decreasing"`
	RatioBelow []ThresholdRule `yaml:"ratio_below"`
}

// DecreasingRule flags figures lower than the previous year's.
type DecreasingRule struct {
	Columns []string `yaml:"columns"`
}

// ThresholdRule flags ratios strictly below a threshold.
type ThresholdRule struct {
	Columns   []string `yaml:"columns"`
	Threshold float64  `yaml:"threshold"`
}

// LoadRules reads the alert-rule set from a YAML file. The file has a
// top-level "alerts" key.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "finance: read alert rules %s", path)
	}

	var wrapper struct {
		Alerts Rules `yaml:"alerts"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "finance: parse alert rules")
	}
	return &wrapper.Alerts, nil
}

// DefaultRules is the shipped alert-rule set: balance-sheet aggregates
// and profit figures flag on decline, liquidity and leverage ratios flag
// below their conventional floors.
func DefaultRules() *Rules {
	return &Rules{
		Decreasing: DecreasingRule{
			Columns: []string{
				ColTotalAssets,
				ColShareholdersEq,
				ColNetSales,
				ColOperatingIncome,
				ColNetIncome,
			},
		},
		RatioBelow: []ThresholdRule{
			{Columns: []string{ColCurrentRatio}, Threshold: 1.0},
			{Columns: []string{ColNetProfitMargin, ColOperatingMargin}, Threshold: 0.05},
		},
	}
}

// Rendered holds the display form of a table: column → year → HTML cell.
type Rendered struct {
	Years   []int
	Columns []string
	Cells   map[string]map[int]string
}

// Highlight renders every cell to a string and wraps flagged cells in a
// red marker carrying an explanatory tooltip. The decreasing rule
// compares a cell to the cell of year-1 by arithmetic on the year label;
// a year with no year-1 row is never flagged. The threshold rule flags
// cells strictly below the rule's threshold. The two rule families are
// kept apart by configuration, not enforcement.
func Highlight(t *Table, rules *Rules) *Rendered {
	r := &Rendered{
		Years:   append([]int(nil), t.Years...),
		Columns: append([]string(nil), t.Columns...),
		Cells:   make(map[string]map[int]string, len(t.Columns)),
	}
	for _, col := range t.Columns {
		cells := make(map[int]string, len(t.Years))
		for _, year := range t.Years {
			v, ok := t.Value(col, year)
			if !ok {
				cells[year] = ""
				continue
			}
			cells[year] = formatCell(v)
		}
		r.Cells[col] = cells
	}

	for _, col := range rules.Decreasing.Columns {
		cells, ok := r.Cells[col]
		if !ok {
			continue
		}
		for _, year := range t.Years {
			cur, okCur := t.Value(col, year)
			prev, okPrev := t.Value(col, year-1)
			if okCur && okPrev && cur < prev {
				cells[year] = markCell(cells[year],
					"This figure is lower than the previous year which might be concerning")
			}
		}
	}

	for _, rule := range rules.RatioBelow {
		for _, col := range rule.Columns {
			cells, ok := r.Cells[col]
			if !ok {
				continue
			}
			for _, year := range t.Years {
				if v, okV := t.Value(col, year); okV && v < rule.Threshold {
					cells[year] = markCell(cells[year],
						fmt.Sprintf("This ratio is lower than %g which might be concerning", rule.Threshold))
				}
			}
		}
	}

	return r
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func markCell(cell, tooltip string) string {
	return fmt.Sprintf("<span style=%q title=%q>%s</span>", "color: red", tooltip, cell)
}
