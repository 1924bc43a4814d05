package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ref1 = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	ref2 = time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
)

func f(v float64) *float64 {
	return &v
}

func TestMapStorePriceRecordsToDataset(t *testing.T) {
	records := []store.PriceRecord{
		{
			ReferenceDate:   time.Date(2025, 12, 1, 13, 45, 0, 0, time.FixedZone("SAST", 2*60*60)),
			Price:           f(12.5),
			Category:        "Meat",
			Subcategory:     "Beef",
			ProductName:     "Mince",
			VendorGroupName: "Spar",
		},
	}

	dataset, err := MapStorePriceRecordsToDataset(records)

	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, domain.Observation{
		ReferenceDate:   ref1,
		Price:           12.5,
		Category:        "Meat",
		Subcategory:     "Beef",
		ProductName:     "Mince",
		VendorGroupName: "Spar",
	}, dataset[0])
}

func TestMapStorePriceRecordsToDataset_NullPrice(t *testing.T) {
	records := []store.PriceRecord{
		{ReferenceDate: ref1, Price: f(1)},
		{ReferenceDate: ref2},
	}

	dataset, err := MapStorePriceRecordsToDataset(records)

	assert.Nil(t, dataset)
	assert.ErrorIs(t, err, comparator.ErrInvalidDataset)
	assert.Contains(t, err.Error(), "row 1")
}

func TestMapComparisonRowDomainToApi(t *testing.T) {
	tests := []struct {
		name   string
		row    domain.ComparisonRow
		metric *float64
	}{
		{
			name:   "both dates",
			row:    domain.ComparisonRow{Value: "Spar", Ref1: f(10), Ref2: f(12), Metric: 20},
			metric: f(20),
		},
		{
			name: "only first date",
			row:  domain.ComparisonRow{Value: "Checkers", Ref1: f(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := MapComparisonRowDomainToApi(tt.row)

			assert.Equal(t, tt.row.Value, row.Value)
			assert.Equal(t, tt.row.Ref1, row.Ref1)
			assert.Equal(t, tt.row.Ref2, row.Ref2)
			assert.Equal(t, tt.metric, row.Metric)
		})
	}
}

func priceReport(view domain.View) *domain.PriceReport {
	return &domain.PriceReport{
		References:       domain.NewReferencePair(ref1, ref2),
		View:             view,
		Observations:     4,
		OverallChangePct: f(12.5),
		Sections: []domain.PriceSection{
			{
				Dimension: domain.DimensionOverall,
				Title:     "Overall",
				ShowBoth:  true,
				Rows:      []domain.ComparisonRow{{Value: "Overall", Ref1: f(10), Ref2: f(11.2345), Metric: 11.2345}},
			},
			{
				Dimension: domain.DimensionCategory,
				Title:     "Category",
				Rows:      []domain.ComparisonRow{{Value: "Meat", Ref2: f(18), Metric: 18}},
				Dropped:   2,
				Aggregates: []domain.AggregateRow{
					{Value: "Meat", Date: ref1, Average: 15, Count: 2},
					{Value: "Meat", Date: ref2, Average: 18, Count: 1},
				},
			},
		},
		Warnings: []domain.Warning{
			{Code: domain.WarningDivisionUndefined, Message: "zero base", Dimension: domain.DimensionCategory, Value: "Free"},
		},
	}
}

func TestMapPriceReportDomainToApi(t *testing.T) {
	out := MapPriceReportDomainToApi(priceReport(domain.ViewComparison))

	assert.Equal(t, "2025-12-01", out.References.Ref1)
	assert.Equal(t, "2025-12-08", out.References.Ref2)
	assert.Equal(t, "comparison", out.View)
	assert.Equal(t, 4, out.Observations)
	require.Len(t, out.Sections, 2)
	assert.Equal(t, "", out.Sections[0].Dimension)
	assert.True(t, out.Sections[0].ShowBoth)
	assert.Equal(t, "category", out.Sections[1].Dimension)
	assert.Equal(t, 2, out.Sections[1].Dropped)
	assert.Empty(t, out.Sections[0].Aggregates)
	require.Len(t, out.Sections[1].Aggregates, 2)
	assert.Equal(t, api.AggregateRow{Value: "Meat", Date: "2025-12-01", Average: 15, Count: 2}, out.Sections[1].Aggregates[0])
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "division_undefined", out.Warnings[0].Code)
	assert.Equal(t, "Free", out.Warnings[0].Value)
}

func TestMapPriceReportDomainToApi_EmptyCollections(t *testing.T) {
	out := MapPriceReportDomainToApi(&domain.PriceReport{View: domain.ViewChange})

	assert.NotNil(t, out.Sections)
	assert.NotNil(t, out.Warnings)
	assert.Nil(t, out.OverallChangePct)
}

func TestMapPriceReportToReport(t *testing.T) {
	tests := []struct {
		name     string
		view     domain.View
		overall  []string
		category []string
	}{
		{
			name:     "comparison",
			view:     domain.ViewComparison,
			overall:  []string{"Overall", "2025-12-01", "2025-12-08"},
			category: []string{"Category", "2025-12-08"},
		},
		{
			name:     "change",
			view:     domain.ViewChange,
			overall:  []string{"Overall", "2025-12-01", "2025-12-08", "Change"},
			category: []string{"Category", "2025-12-01", "2025-12-08", "Change"},
		},
		{
			name:     "percentage change",
			view:     domain.ViewPercentageChange,
			overall:  []string{"Overall", "2025-12-01", "2025-12-08", "Change %"},
			category: []string{"Category", "2025-12-01", "2025-12-08", "Change %"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := MapPriceReportToReport(priceReport(tt.view))

			assert.Equal(t, "Overall change: +12.50%", report.Headline)
			assert.Equal(t, 7, report.Period.Duration)
			require.Len(t, report.Sections, 3)
			assert.Equal(t, tt.overall, report.Sections[0].Columns)
			assert.Equal(t, tt.category, report.Sections[1].Columns)
			for i, row := range report.Sections[1].Rows {
				assert.Len(t, row, len(tt.category), "row %d", i)
			}
			assert.Equal(t, 2, report.Sections[1].Summary["dropped"])
			assert.Equal(t, "Warnings", report.Sections[2].Title)
		})
	}
}

func TestMapPriceReportToReport_Rows(t *testing.T) {
	report := MapPriceReportToReport(priceReport(domain.ViewComparison))

	assert.Equal(t, [][]string{{"Overall", "10.00", "11.23"}}, report.Sections[0].Rows)
	assert.Equal(t, [][]string{{"Meat", "18.00"}}, report.Sections[1].Rows)
}

func TestMapPriceReportToReport_UndefinedOverall(t *testing.T) {
	pr := priceReport(domain.ViewChange)
	pr.OverallChangePct = nil
	pr.Warnings = nil

	report := MapPriceReportToReport(pr)

	assert.Equal(t, "Overall change: undefined", report.Headline)
	assert.Len(t, report.Sections, 2)
}

func TestMapControlRoom(t *testing.T) {
	week := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	cr := domain.ControlRoom{
		KPIs: domain.ControlRoomKPIs{ESBSuccessRate: 97.5, LatestESBWeek: week, LatestBankWeek: week, OpenESBItems: 3},
		BankControlLog: []domain.BankRecon{
			{Week: week, System: "Sunsystem", MatchPct: 99.3, Outstanding: 2, Note: "timing"},
		},
		ESBPosture:     []domain.CategoryCount{{Category: "BEL", Status: "Open", Count: 3}},
		ESBWeeklyTrend: []domain.SeriesPoint{{Series: "Failed", X: week, Y: 4}},
	}

	t.Run("api", func(t *testing.T) {
		out := MapControlRoomDomainToApi(cr)

		assert.Equal(t, 97.5, out.KPIs.ESBSuccessRate)
		assert.Equal(t, 3, out.KPIs.OpenESBItems)
		require.Len(t, out.BankControlLog, 1)
		assert.Equal(t, "Sunsystem", out.BankControlLog[0].System)
		require.Len(t, out.ESBWeeklyTrend, 1)
		assert.Equal(t, 4.0, out.ESBWeeklyTrend[0].Y)
		assert.NotNil(t, out.IFRS17Batches)
	})

	t.Run("report", func(t *testing.T) {
		report := MapControlRoomToReport(cr)

		assert.Equal(t, "Overall ESB success rate: 97.50%", report.Headline)
		require.Len(t, report.Sections, 5)
		assert.Equal(t, 3, report.Sections[0].Summary["Open ESB items"])
		assert.Equal(t, [][]string{{"2025-11-24", "Sunsystem", "99.3", "2", "timing"}}, report.Sections[1].Rows)
		assert.Equal(t, [][]string{{"BEL", "Open", "3"}}, report.Sections[2].Rows)
	})
}
