package comparator

import (
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

var (
	// ErrEmptyInput reports a reference date without observations.
	ErrEmptyInput = errors.New("no observations for reference date")
	// ErrDivisionUndefined reports a zero average at the first reference date.
	ErrDivisionUndefined = errors.New("percentage change undefined for zero base")
	// ErrInvalidReferenceDate reports a reference date absent from the full dataset.
	ErrInvalidReferenceDate = errors.New("reference date not found in dataset")
	// ErrUndefined wraps the conditions that leave a metric without a value.
	ErrUndefined = errors.New("metric undefined")
	// ErrInvalidDataset is the only hard failure: the rows cannot be compared at all.
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrInvalidView    = errors.New("invalid view")
	ErrInvalidSort    = errors.New("invalid sort order")
)

func ParseView(s string) (domain.View, error) {
	switch v := domain.View(s); v {
	case domain.ViewComparison, domain.ViewChange, domain.ViewPercentageChange:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q (expected comparison, change or percentage_change)", ErrInvalidView, s)
}

func ParseSortOrder(s string) (domain.SortOrder, error) {
	switch o := domain.SortOrder(s); o {
	case domain.SortNone, domain.SortByValue, domain.SortMetricAsc, domain.SortMetricDesc:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// ValidateDataset rejects rows that carry no usable price or date.
func ValidateDataset(dataset domain.Dataset) error {
	for i, o := range dataset {
		if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
			return fmt.Errorf("%w: row %d has non-numeric price", ErrInvalidDataset, i)
		}
		if o.ReferenceDate.IsZero() {
			return fmt.Errorf("%w: row %d has no reference date", ErrInvalidDataset, i)
		}
	}
	return nil
}
