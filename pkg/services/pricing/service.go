package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnauthorized = errors.New("session is not authorized")
	ErrNoData       = errors.New("no price observations available")
)

// Store is the data-access collaborator the service loads observations from.
type Store interface {
	GetObservations(ctx context.Context) ([]store.PriceRecord, error)
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
}

// Service builds the price-monitoring dashboard
type Service interface {
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
	DefaultReferences(ctx context.Context) (domain.ReferencePair, error)
	BuildReport(ctx context.Context, opts ReportOptions) (*domain.PriceReport, error)
}

type ReportOptions struct {
	View     domain.View
	SortBy   domain.SortOrder
	Category string // optional, restricts the dataset before aggregation
}

type section struct {
	dimension domain.Dimension
	showBoth  bool
}

// Overall and vendor sections show both dates side by side in the
// Comparison view; the others only show the second date.
var sections = []section{
	{dimension: domain.DimensionOverall, showBoth: true},
	{dimension: domain.DimensionCategory},
	{dimension: domain.DimensionSubcategory},
	{dimension: domain.DimensionProduct},
	{dimension: domain.DimensionVendor, showBoth: true},
}

type service struct {
	store Store
}

func NewService(s Store) Service {
	return &service{store: s}
}

func (s *service) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.store.ListReferenceDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reference dates: %w", err)
	}

	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := domain.Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out, nil
}

func (s *service) DefaultReferences(ctx context.Context) (domain.ReferencePair, error) {
	dates, err := s.ListReferenceDates(ctx)
	if err != nil {
		return domain.ReferencePair{}, err
	}
	switch len(dates) {
	case 0:
		return domain.ReferencePair{}, ErrNoData
	case 1:
		return domain.NewReferencePair(dates[0], dates[0]), nil
	default:
		return domain.NewReferencePair(dates[1], dates[0]), nil
	}
}

func (s *service) BuildReport(ctx context.Context, opts ReportOptions) (*domain.PriceReport, error) {
	logger := zerolog.Ctx(ctx)

	sess := session.FromContext(ctx)
	if !sess.Authorized {
		return nil, ErrUnauthorized
	}
	if opts.View == "" {
		opts.View = domain.ViewComparison
	}
	if _, err := comparator.ParseView(string(opts.View)); err != nil {
		return nil, err
	}
	if _, err := comparator.ParseSortOrder(string(opts.SortBy)); err != nil {
		return nil, err
	}

	var pair domain.ReferencePair
	if sess.References != nil {
		pair = domain.NewReferencePair(sess.References.Ref1, sess.References.Ref2)
	} else {
		var err error
		if pair, err = s.DefaultReferences(ctx); err != nil {
			return nil, err
		}
	}

	records, err := s.store.GetObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	dataset, err := adapters.MapStorePriceRecordsToDataset(records)
	if err != nil {
		return nil, err
	}
	if err := comparator.ValidateDataset(dataset); err != nil {
		return nil, err
	}

	report := &domain.PriceReport{
		References: pair,
		View:       opts.View,
		Category:   opts.Category,
		Sections:   make([]domain.PriceSection, len(sections)),
	}

	full := dataset
	if opts.Category != "" {
		dataset = filterCategory(dataset, opts.Category)
	}
	report.Observations = countAt(dataset, pair)
	report.Warnings = append(report.Warnings, coverageWarnings(full, dataset, pair)...)

	if pct, err := comparator.OverallChangePercent(dataset, pair); err == nil {
		report.OverallChangePct = &pct
	} else if errors.Is(err, comparator.ErrDivisionUndefined) {
		report.Warnings = append(report.Warnings, domain.Warning{
			Code:    domain.WarningDivisionUndefined,
			Message: fmt.Sprintf("overall average price on %s is zero; percentage change is undefined", pair.Ref1.Format(domain.DateLayout)),
		})
	}

	var g errgroup.Group
	for i, sec := range sections {
		g.Go(func() error {
			agg := comparator.Aggregate(dataset, sec.dimension, pair)
			rows, dropped, err := comparator.Compare(agg, opts.View, comparator.Options{
				ShowBoth: sec.showBoth,
				SortBy:   opts.SortBy,
			})
			if err != nil {
				return fmt.Errorf("compare %s: %w", sec.dimension.Title(), err)
			}
			report.Sections[i] = domain.PriceSection{
				Dimension:  sec.dimension,
				Title:      sec.dimension.Title(),
				ShowBoth:   sec.showBoth,
				Rows:       rows,
				Dropped:    len(dropped),
				Aggregates: agg.Rows(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, w := range report.Warnings {
		logger.Warn().
			Str("code", string(w.Code)).
			Str("ref1", pair.Ref1.Format(domain.DateLayout)).
			Str("ref2", pair.Ref2.Format(domain.DateLayout)).
			Msg(w.Message)
	}

	return report, nil
}

// coverageWarnings reports reference dates missing from the full dataset as
// invalid, and dates that only vanish after filtering as empty input.
func coverageWarnings(full, filtered domain.Dataset, pair domain.ReferencePair) []domain.Warning {
	fullCounts := comparator.CountByDate(full)
	filteredCounts := comparator.CountByDate(filtered)

	var warnings []domain.Warning
	for _, d := range distinct(pair) {
		switch {
		case !comparator.HasDate(fullCounts, d):
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarningInvalidReferenceDate,
				Message: fmt.Sprintf("%s: %s", comparator.ErrInvalidReferenceDate, d.Format(domain.DateLayout)),
			})
		case !comparator.HasDate(filteredCounts, d):
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarningEmptyInput,
				Message: fmt.Sprintf("%s %s", comparator.ErrEmptyInput, d.Format(domain.DateLayout)),
			})
		}
	}
	return warnings
}

func filterCategory(dataset domain.Dataset, category string) domain.Dataset {
	out := make(domain.Dataset, 0, len(dataset))
	for _, o := range dataset {
		if o.Category == category {
			out = append(out, o)
		}
	}
	return out
}

func countAt(dataset domain.Dataset, pair domain.ReferencePair) int {
	n := 0
	for _, o := range dataset {
		if pair.Contains(o.ReferenceDate) {
			n++
		}
	}
	return n
}

func distinct(pair domain.ReferencePair) []time.Time {
	if pair.Ref1.Equal(pair.Ref2) {
		return []time.Time{pair.Ref1}
	}
	return []time.Time{pair.Ref1, pair.Ref2}
}
