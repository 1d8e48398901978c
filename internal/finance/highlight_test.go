package finance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightDecreasing(t *testing.T) {
	table := tableFrom("USD", []int{2022, 2021},
		map[string][]float64{ColNetIncome: {90, 100}},
		[]string{ColNetIncome})
	rules := &Rules{Decreasing: DecreasingRule{Columns: []string{ColNetIncome}}}

	r := Highlight(table, rules)

	assert.Contains(t, r.Cells[ColNetIncome][2022], "color: red",
		"2022 fell against 2021")
	assert.Contains(t, r.Cells[ColNetIncome][2022], "lower than the previous year")
	assert.Equal(t, "100", r.Cells[ColNetIncome][2021],
		"2021 has no prior year row and is never flagged")
}

func TestHighlightIncreasingNotFlagged(t *testing.T) {
	table := tableFrom("USD", []int{2022, 2021},
		map[string][]float64{ColNetIncome: {110, 100}},
		[]string{ColNetIncome})
	rules := &Rules{Decreasing: DecreasingRule{Columns: []string{ColNetIncome}}}

	r := Highlight(table, rules)

	assert.Equal(t, "110", r.Cells[ColNetIncome][2022])
	assert.Equal(t, "100", r.Cells[ColNetIncome][2021])
}

func TestHighlightDecreasingNonAdjacentYears(t *testing.T) {
	// 2020 is absent: 2022 compares against the literal label 2021 only.
	table := tableFrom("USD", []int{2022, 2020},
		map[string][]float64{ColNetIncome: {50, 100}},
		[]string{ColNetIncome})
	rules := &Rules{Decreasing: DecreasingRule{Columns: []string{ColNetIncome}}}

	r := Highlight(table, rules)

	assert.Equal(t, "50", r.Cells[ColNetIncome][2022],
		"no year-1 row means no comparison, however large the drop")
}

func TestHighlightThreshold(t *testing.T) {
	table := tableFrom("USD", []int{2022, 2021},
		map[string][]float64{ColCurrentRatio: {0.8, 1.0}},
		[]string{ColCurrentRatio})
	rules := &Rules{RatioBelow: []ThresholdRule{{Columns: []string{ColCurrentRatio}, Threshold: 1.0}}}

	r := Highlight(table, rules)

	assert.Contains(t, r.Cells[ColCurrentRatio][2022], "lower than 1")
	assert.Equal(t, "1", r.Cells[ColCurrentRatio][2021],
		"a cell equal to the threshold is not flagged")
}

func TestHighlightMissingCellRendersEmpty(t *testing.T) {
	table := tableFrom("USD", []int{2022, 2021},
		map[string][]float64{ColNetIncome: {90}},
		[]string{ColNetIncome})

	r := Highlight(table, DefaultRules())

	assert.Equal(t, "", r.Cells[ColNetIncome][2021])
}

func TestHighlightRuleForAbsentColumn(t *testing.T) {
	table := tableFrom("USD", []int{2022},
		map[string][]float64{ColNetIncome: {90}},
		[]string{ColNetIncome})
	rules := &Rules{
		Decreasing: DecreasingRule{Columns: []string{"No Such Column"}},
		RatioBelow: []ThresholdRule{{Columns: []string{"Also Missing"}, Threshold: 1}},
	}

	r := Highlight(table, rules)
	assert.Equal(t, "90", r.Cells[ColNetIncome][2022])
}

func TestLoadRules(t *testing.T) {
	yaml := `
alerts:
  decreasing:
    columns:
      - Net Income
  ratio_below:
    - columns:
        - Current Ratio
      threshold: 1.5
`
	path := filepath.Join(t.TempDir(), "alerts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Net Income"}, rules.Decreasing.Columns)
	require.Len(t, rules.RatioBelow, 1)
	assert.Equal(t, 1.5, rules.RatioBelow[0].Threshold)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules("/nonexistent/alerts.yaml")
	assert.Error(t, err)
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	assert.Contains(t, rules.Decreasing.Columns, ColNetIncome)
	require.Len(t, rules.RatioBelow, 2)
	assert.Equal(t, 1.0, rules.RatioBelow[0].Threshold)
}
