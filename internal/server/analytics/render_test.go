package analytics

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(c models.Category, total string, n int) AggregateRow {
	return AggregateRow{Category: c, TotalAmount: decimal.RequireFromString(total), Count: n}
}

func TestRenderReport(t *testing.T) {
	assert.Equal(t, "No data to display", RenderReport(nil))

	got := RenderReport([]AggregateRow{
		row(models.CategoryFood, "42.5", 1),
		row(models.CategoryHealth, "3", 2),
	})
	want := "Expense report:\n" +
		"==============================\n" +
		"food: 42.50 (1 records)\n" +
		"health: 3.00 (2 records)\n"
	assert.Equal(t, want, got)
}

func TestRenderCSV(t *testing.T) {
	got, err := RenderCSV([]AggregateRow{
		row(models.CategoryFood, "42.5", 1),
		row(models.CategoryTransport, "1234.56", 3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Category,Total Amount,Count\nfood,42.50,1\ntransport,1234.56,3\n", got)

	records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRenderCSV_HeaderOnly(t *testing.T) {
	got, err := RenderCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Category,Total Amount,Count\n", got)
}

func TestChart(t *testing.T) {
	p := Chart([]AggregateRow{
		row(models.CategoryFood, "10.25", 1),
		row(models.CategoryOther, "5", 1),
	})
	assert.Equal(t, []string{"food", "other"}, p.Labels)
	assert.Equal(t, []float64{10.25, 5}, p.Data)
	assert.Equal(t, []string{"#4facfe", "#00f2fe"}, p.Colors)
}

func TestChart_PaletteCycles(t *testing.T) {
	var rows []AggregateRow
	for i := 0; i < len(Palette)+2; i++ {
		rows = append(rows, row(models.CategoryOther, "1", 1))
	}
	p := Chart(rows)
	require.Len(t, p.Colors, len(rows))
	assert.Equal(t, Palette[0], p.Colors[len(Palette)])
	assert.Equal(t, Palette[1], p.Colors[len(Palette)+1])
}

func TestChart_Empty(t *testing.T) {
	p := Chart(nil)
	assert.NotNil(t, p.Labels)
	assert.Empty(t, p.Data)
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2024, 7, 3, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "expense_report_20240703_140509.csv", ReportFilename(now))
}
