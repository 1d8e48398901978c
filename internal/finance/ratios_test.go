package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combinedFixture() *Table {
	return tableFrom("million USD", []int{2022},
		map[string][]float64{
			ColTotalAssets:      {1000},
			ColCurrentAssets:    {500},
			ColTotalLiabilities: {400},
			ColShareholdersEq:   {600},
			ColCurrentLiabs:     {200},
			ColNetSales:         {1000},
			ColOperatingIncome:  {150},
			ColNetIncome:        {90},
		},
		[]string{
			ColTotalAssets, ColCurrentAssets, ColTotalLiabilities,
			ColShareholdersEq, ColCurrentLiabs, ColNetSales,
			ColOperatingIncome, ColNetIncome,
		})
}

func TestAddRatios(t *testing.T) {
	table := combinedFixture()
	AddRatios(table)
	table.Round()

	tests := []struct {
		column string
		want   float64
	}{
		{ColDebtToEquity, 0.67},    // 400 / 600
		{ColCurrentRatio, 2.5},     // 500 / 200
		{ColReturnOnEquity, 2.0},   // 400 / 200, label kept as shipped
		{ColOperatingMargin, 0.15}, // 90 / 600, label kept as shipped
		{ColNetProfitMargin, 0.15}, // 150 / 1000
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			v, ok := table.Value(tt.column, 2022)
			require.True(t, ok)
			assert.InDelta(t, tt.want, v, 0.0001)
		})
	}
}

func TestAddRatiosColumnOrder(t *testing.T) {
	table := combinedFixture()
	AddRatios(table)

	n := len(table.Columns)
	require.GreaterOrEqual(t, n, 5)
	assert.Equal(t,
		[]string{ColDebtToEquity, ColCurrentRatio, ColReturnOnEquity, ColOperatingMargin, ColNetProfitMargin},
		table.Columns[n-5:],
		"ratio columns follow the line items in definition order")
}

func TestAddRatiosMissingOperand(t *testing.T) {
	table := tableFrom("USD", []int{2022, 2021},
		map[string][]float64{
			ColCurrentAssets: {500, 450},
			ColCurrentLiabs:  {200},
		},
		[]string{ColCurrentAssets, ColCurrentLiabs})

	AddRatios(table)

	v, ok := table.Value(ColCurrentRatio, 2022)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 0.0001)

	_, ok = table.Value(ColCurrentRatio, 2021)
	assert.False(t, ok, "a year missing either operand gets no ratio cell")

	_, ok = table.Value(ColDebtToEquity, 2022)
	assert.False(t, ok, "ratios with no operands at all never materialize")
}
