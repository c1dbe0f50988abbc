package analytics

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const noData = "No data to display"

// Palette is assigned to chart slices positionally and repeats.
var Palette = []string{"#4facfe", "#00f2fe", "#667eea", "#764ba2", "#f093fb", "#f5576c", "#4ecdc4"}

type ChartPayload struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors"`
}

// RenderReport lists rows as "category: total (count records)" lines under
// a fixed header.
func RenderReport(rows []AggregateRow) string {
	if len(rows) == 0 {
		return noData
	}

	var sb strings.Builder
	sb.WriteString("Expense report:\n")
	sb.WriteString(strings.Repeat("=", 30) + "\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s: %s (%d records)\n", r.Category, r.TotalAmount.StringFixed(2), r.Count)
	}
	return sb.String()
}

func RenderCSV(rows []AggregateRow) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"Category", "Total Amount", "Count"}); err != nil {
		return "", err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Category.String(), r.TotalAmount.StringFixed(2), strconv.Itoa(r.Count)}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func Chart(rows []AggregateRow) ChartPayload {
	p := ChartPayload{
		Labels: make([]string, 0, len(rows)),
		Data:   make([]float64, 0, len(rows)),
		Colors: make([]string, 0, len(rows)),
	}
	for i, r := range rows {
		p.Labels = append(p.Labels, r.Category.String())
		p.Data = append(p.Data, r.TotalAmount.InexactFloat64())
		p.Colors = append(p.Colors, Palette[i%len(Palette)])
	}
	return p
}

// ReportFilename names a CSV export created at now.
func ReportFilename(now time.Time) string {
	return "expense_report_" + now.Format("20060102_150405") + ".csv"
}
