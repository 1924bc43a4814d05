package domain

import "time"

// DateLayout is the calendar date format used for reference dates everywhere
// outside of the store layer.
const DateLayout = "2006-01-02"

type Dimension string

const (
	DimensionOverall     Dimension = ""
	DimensionCategory    Dimension = "category"
	DimensionSubcategory Dimension = "subcategory"
	DimensionProduct     Dimension = "product_name"
	DimensionVendor      Dimension = "vendor_group_name"
)

// OverallLabel names the single group produced when no dimension is used.
const OverallLabel = "Overall"

// Label returns the dimension value of an observation.
func (d Dimension) Label(o Observation) string {
	switch d {
	case DimensionCategory:
		return o.Category
	case DimensionSubcategory:
		return o.Subcategory
	case DimensionProduct:
		return o.ProductName
	case DimensionVendor:
		return o.VendorGroupName
	default:
		return OverallLabel
	}
}

func (d Dimension) Title() string {
	switch d {
	case DimensionCategory:
		return "Category"
	case DimensionSubcategory:
		return "Subcategory"
	case DimensionProduct:
		return "Product"
	case DimensionVendor:
		return "Vendor Group"
	default:
		return OverallLabel
	}
}

type Observation struct {
	ReferenceDate   time.Time
	Price           float64
	Category        string
	Subcategory     string
	ProductName     string
	VendorGroupName string
}

type Dataset []Observation

type ReferencePair struct {
	Ref1 time.Time
	Ref2 time.Time
}

// NewReferencePair truncates both dates to calendar days.
func NewReferencePair(ref1, ref2 time.Time) ReferencePair {
	return ReferencePair{Ref1: Day(ref1), Ref2: Day(ref2)}
}

func (p ReferencePair) Contains(t time.Time) bool {
	d := Day(t)
	return d.Equal(p.Ref1) || d.Equal(p.Ref2)
}

func (p ReferencePair) Reversed() ReferencePair {
	return ReferencePair{Ref1: p.Ref2, Ref2: p.Ref1}
}

// Day drops the clock part of t and pins it to UTC so that dates loaded
// from different drivers compare equal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type View string

const (
	ViewComparison       View = "comparison"
	ViewChange           View = "change"
	ViewPercentageChange View = "percentage_change"
)

type SortOrder string

const (
	SortNone       SortOrder = ""
	SortByValue    SortOrder = "value"
	SortMetricAsc  SortOrder = "metric_asc"
	SortMetricDesc SortOrder = "metric_desc"
)

type AggregateRow struct {
	Value   string
	Date    time.Time
	Average float64
	Count   int
}

// ComparisonRow is one (dimension value, metric) pair of a comparison view.
// Ref1 and Ref2 carry the averages that produced Metric; Ref1 is nil for
// Comparison rows of sections that only show the second date.
type ComparisonRow struct {
	Value  string
	Ref1   *float64
	Ref2   *float64
	Metric float64
}

type WarningCode string

const (
	WarningEmptyInput           WarningCode = "empty_input"
	WarningDivisionUndefined    WarningCode = "division_undefined"
	WarningInvalidReferenceDate WarningCode = "invalid_reference_date"
)

type Warning struct {
	Code      WarningCode
	Message   string
	Dimension Dimension
	Value     string
}

type PriceSection struct {
	Dimension Dimension
	Title     string
	ShowBoth  bool
	Rows      []ComparisonRow
	// Dropped counts values excluded because a percentage change was undefined.
	Dropped int
	// Aggregates lists the averages and observation counts behind Rows.
	Aggregates []AggregateRow
}

type PriceReport struct {
	References       ReferencePair
	View             View
	Category         string
	Observations     int
	OverallChangePct *float64
	Sections         []PriceSection
	Warnings         []Warning
}
