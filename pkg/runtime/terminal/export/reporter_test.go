package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	report := &domain.Report{
		Title:    "Price monitoring (comparison)",
		Period:   domain.TimePeriod{Start: start, End: start.AddDate(0, 0, 7), Duration: 7},
		Headline: "Overall change: +20.00%",
		Sections: []domain.ReportSection{
			{
				Title:   "Category",
				Summary: map[string]interface{}{"rows": 2, "dropped": 1},
				Columns: []string{"Category", "2025-12-08"},
				Rows: [][]string{
					{"Meat", "18.00"},
					{"Bakery", "6.00"},
				},
			},
		},
	}

	// When
	err := reporter.Handle(report)

	// Then
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Price monitoring (comparison)\n")
	assert.Contains(t, out, "Period: 2025-12-01 to 2025-12-08 (7 days)\n")
	assert.Contains(t, out, "Overall change: +20.00%\n")
	assert.Contains(t, out, "=== Category ===\n")
	assert.Less(t, strings.Index(out, "dropped: 1"), strings.Index(out, "rows: 2"), "summary keys are sorted")
	assert.Contains(t, out, "+----------+------------+\n")
	assert.Contains(t, out, "| Category | 2025-12-08 |\n")
	assert.Contains(t, out, "| Meat     | 18.00      |\n")
	assert.Contains(t, out, "| Bakery   | 6.00       |\n")
}

func TestReporter_NoPeriodNoTable(t *testing.T) {
	var buf bytes.Buffer

	err := NewReporter(&buf).Handle(&domain.Report{
		Title:    "KPIs only",
		Sections: []domain.ReportSection{{Title: "KPIs", Summary: map[string]interface{}{"Open ESB items": 0}}},
	})

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Period:")
	assert.NotContains(t, buf.String(), "+--")
	assert.Contains(t, buf.String(), "Open ESB items: 0\n")
}

func TestReporter_Widths(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})
	r.config = TableConfig{MinColumnWidth: 3, MaxColumnWidth: 10}

	widths := r.widths([]string{"A", "Name"}, [][]string{{"ab", strings.Repeat("x", 30)}, {"abcd"}})
	assert.Equal(t, []int{4, 10}, widths)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Vendor Gr…", truncate("Vendor Group Name", 10))
	assert.Equal(t, 10, len([]rune(truncate("Vendor Group Name", 10))))
}
