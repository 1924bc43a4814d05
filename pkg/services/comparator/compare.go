package comparator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

type Options struct {
	// ShowBoth fills Ref1 next to Ref2 in the Comparison view.
	ShowBoth bool
	SortBy   domain.SortOrder
}

// Compare derives the rows of view from the aggregates. Change and
// PercentageChange only keep values averaged at both reference dates.
// Comparison needs the second one, except for side-by-side sections which
// also list values seen only at Ref1 (Ref2 nil, Metric zero). Values whose
// percentage change would divide by zero are dropped and reported as
// warnings.
func Compare(agg *Aggregates, view domain.View, opts Options) ([]domain.ComparisonRow, []domain.Warning, error) {
	if _, err := ParseView(string(view)); err != nil {
		return nil, nil, err
	}
	if _, err := ParseSortOrder(string(opts.SortBy)); err != nil {
		return nil, nil, err
	}

	var (
		rows     = make([]domain.ComparisonRow, 0, agg.Len())
		warnings []domain.Warning
	)
	for _, value := range agg.values {
		ref1, ok1 := agg.Get(value, agg.Pair.Ref1)
		ref2, ok2 := agg.Get(value, agg.Pair.Ref2)
		if !ok2 && !(view == domain.ViewComparison && opts.ShowBoth && ok1) {
			continue
		}

		var row domain.ComparisonRow
		row.Value = value
		if ok2 {
			row.Ref2 = ptr(ref2)
		}
		switch view {
		case domain.ViewComparison:
			row.Metric = ref2
			if opts.ShowBoth && ok1 {
				row.Ref1 = ptr(ref1)
			}
		case domain.ViewChange:
			if !ok1 {
				continue
			}
			row.Ref1 = ptr(ref1)
			row.Metric = normalize(ref2 - ref1)
		case domain.ViewPercentageChange:
			if !ok1 {
				continue
			}
			pct, err := percentChange(ref1, ref2)
			if err != nil {
				warnings = append(warnings, domain.Warning{
					Code:      domain.WarningDivisionUndefined,
					Message:   fmt.Sprintf("%s %q has a zero average price on %s", agg.Dimension.Title(), value, agg.Pair.Ref1.Format(domain.DateLayout)),
					Dimension: agg.Dimension,
					Value:     value,
				})
				continue
			}
			row.Ref1 = ptr(ref1)
			row.Metric = pct
		}
		rows = append(rows, row)
	}

	sortRows(rows, opts.SortBy)
	return rows, warnings, nil
}

// OverallChangePercent is the percentage change of the overall average price
// between the two reference dates.
func OverallChangePercent(dataset domain.Dataset, pair domain.ReferencePair) (float64, error) {
	agg := Aggregate(dataset, domain.DimensionOverall, pair)

	ref1, ok := agg.Get(domain.OverallLabel, agg.Pair.Ref1)
	if !ok {
		return 0, fmt.Errorf("%w: %w %s", ErrUndefined, ErrEmptyInput, agg.Pair.Ref1.Format(domain.DateLayout))
	}
	ref2, ok := agg.Get(domain.OverallLabel, agg.Pair.Ref2)
	if !ok {
		return 0, fmt.Errorf("%w: %w %s", ErrUndefined, ErrEmptyInput, agg.Pair.Ref2.Format(domain.DateLayout))
	}

	pct, err := percentChange(ref1, ref2)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUndefined, err)
	}
	return pct, nil
}

func percentChange(ref1, ref2 float64) (float64, error) {
	if ref1 == 0 {
		return 0, ErrDivisionUndefined
	}
	return normalize((ref2 - ref1) / ref1 * 100), nil
}

func sortRows(rows []domain.ComparisonRow, order domain.SortOrder) {
	switch order {
	case domain.SortByValue:
		slices.SortStableFunc(rows, func(a, b domain.ComparisonRow) int {
			return cmp.Compare(a.Value, b.Value)
		})
	case domain.SortMetricAsc:
		slices.SortStableFunc(rows, func(a, b domain.ComparisonRow) int {
			return cmp.Compare(a.Metric, b.Metric)
		})
	case domain.SortMetricDesc:
		slices.SortStableFunc(rows, func(a, b domain.ComparisonRow) int {
			return cmp.Compare(b.Metric, a.Metric)
		})
	}
}

// normalize turns a negative zero into zero.
func normalize(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func ptr(v float64) *float64 {
	return &v
}
