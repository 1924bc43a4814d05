package comparator

import (
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

type group struct {
	sum   float64
	count int
}

func (g group) average() float64 {
	return g.sum / float64(g.count)
}

// Aggregates maps a dimension value to its average price per reference date.
// Values keep the order in which they first appear in the dataset.
type Aggregates struct {
	Dimension domain.Dimension
	Pair      domain.ReferencePair

	values []string
	groups map[string]map[string]*group
}

// Aggregate averages the price of every (dimension value, reference date)
// group of the observations dated Ref1 or Ref2. Rows at other dates are
// ignored, so the caller may pass the full dataset.
func Aggregate(dataset domain.Dataset, dim domain.Dimension, pair domain.ReferencePair) *Aggregates {
	pair = domain.NewReferencePair(pair.Ref1, pair.Ref2)
	agg := &Aggregates{
		Dimension: dim,
		Pair:      pair,
		groups:    make(map[string]map[string]*group),
	}

	for _, o := range dataset {
		if !pair.Contains(o.ReferenceDate) {
			continue
		}
		value := dim.Label(o)
		dates, ok := agg.groups[value]
		if !ok {
			dates = make(map[string]*group, 2)
			agg.groups[value] = dates
			agg.values = append(agg.values, value)
		}
		key := dateKey(o.ReferenceDate)
		g, ok := dates[key]
		if !ok {
			g = &group{}
			dates[key] = g
		}
		g.sum += o.Price
		g.count++
	}

	return agg
}

// Len returns the number of distinct dimension values.
func (a *Aggregates) Len() int {
	return len(a.values)
}

// Values returns a copy of the dimension values in first-appearance order.
func (a *Aggregates) Values() []string {
	return append([]string(nil), a.values...)
}

// Get returns the average price of value at date and whether any
// observation backs it.
func (a *Aggregates) Get(value string, date time.Time) (float64, bool) {
	g, ok := a.groups[value][dateKey(date)]
	if !ok {
		return 0, false
	}
	return g.average(), true
}

// Rows flattens the mapping into aggregate rows, Ref1 before Ref2 for each value.
func (a *Aggregates) Rows() []domain.AggregateRow {
	dates := []time.Time{a.Pair.Ref1}
	if !a.Pair.Ref2.Equal(a.Pair.Ref1) {
		dates = append(dates, a.Pair.Ref2)
	}

	rows := make([]domain.AggregateRow, 0, len(a.values)*len(dates))
	for _, value := range a.values {
		for _, d := range dates {
			g, ok := a.groups[value][dateKey(d)]
			if !ok {
				continue
			}
			rows = append(rows, domain.AggregateRow{
				Value:   value,
				Date:    d,
				Average: g.average(),
				Count:   g.count,
			})
		}
	}
	return rows
}

// CountByDate returns the number of observations per calendar date.
func CountByDate(dataset domain.Dataset) map[string]int {
	counts := make(map[string]int)
	for _, o := range dataset {
		counts[dateKey(o.ReferenceDate)]++
	}
	return counts
}

// HasDate reports whether counts, as built by CountByDate, include date.
func HasDate(counts map[string]int, date time.Time) bool {
	return counts[dateKey(date)] > 0
}

func dateKey(t time.Time) string {
	return domain.Day(t).Format(domain.DateLayout)
}
