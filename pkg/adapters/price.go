package adapters

import (
	"fmt"

	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
)

// MapStorePriceRecordsToDataset validates rows at the data-access boundary.
// A record without a price makes the whole dataset invalid.
func MapStorePriceRecordsToDataset(records []store.PriceRecord) (domain.Dataset, error) {
	dataset := make(domain.Dataset, 0, len(records))
	for i, r := range records {
		if r.Price == nil {
			return nil, fmt.Errorf("%w: row %d has no price", comparator.ErrInvalidDataset, i)
		}
		dataset = append(dataset, domain.Observation{
			ReferenceDate:   domain.Day(r.ReferenceDate),
			Price:           *r.Price,
			Category:        r.Category,
			Subcategory:     r.Subcategory,
			ProductName:     r.ProductName,
			VendorGroupName: r.VendorGroupName,
		})
	}
	return dataset, nil
}

func MapReferencePairDomainToApi(pair domain.ReferencePair) api.ReferencePair {
	return api.ReferencePair{
		Ref1: pair.Ref1.Format(domain.DateLayout),
		Ref2: pair.Ref2.Format(domain.DateLayout),
	}
}

func MapPriceReportDomainToApi(report *domain.PriceReport) api.PriceReport {
	out := api.PriceReport{
		References:       MapReferencePairDomainToApi(report.References),
		View:             string(report.View),
		Category:         report.Category,
		Observations:     report.Observations,
		OverallChangePct: report.OverallChangePct,
		Sections:         make([]api.PriceSection, 0, len(report.Sections)),
		Warnings:         make([]api.Warning, 0, len(report.Warnings)),
	}

	for _, s := range report.Sections {
		section := api.PriceSection{
			Dimension:  string(s.Dimension),
			Title:      s.Title,
			ShowBoth:   s.ShowBoth,
			Rows:       make([]api.ComparisonRow, 0, len(s.Rows)),
			Dropped:    s.Dropped,
			Aggregates: make([]api.AggregateRow, 0, len(s.Aggregates)),
		}
		for _, r := range s.Rows {
			section.Rows = append(section.Rows, MapComparisonRowDomainToApi(r))
		}
		for _, a := range s.Aggregates {
			section.Aggregates = append(section.Aggregates, api.AggregateRow{
				Value:   a.Value,
				Date:    a.Date.Format(domain.DateLayout),
				Average: a.Average,
				Count:   a.Count,
			})
		}
		out.Sections = append(out.Sections, section)
	}

	for _, w := range report.Warnings {
		out.Warnings = append(out.Warnings, api.Warning{
			Code:      string(w.Code),
			Message:   w.Message,
			Dimension: string(w.Dimension),
			Value:     w.Value,
		})
	}

	return out
}

// MapComparisonRowDomainToApi leaves the metric empty for side-by-side rows
// that have no value at the second reference date.
func MapComparisonRowDomainToApi(r domain.ComparisonRow) api.ComparisonRow {
	row := api.ComparisonRow{
		Value: r.Value,
		Ref1:  r.Ref1,
		Ref2:  r.Ref2,
	}
	if r.Ref2 != nil {
		metric := r.Metric
		row.Metric = &metric
	}
	return row
}
