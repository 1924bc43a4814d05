package controlroom

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

const (
	StatusFailed      = "failed"
	StatusResubmitted = "resubmitted"
	StatusOpen        = "open"
	StatusOutstanding = "outstanding"
	SeriesSuccessRate = "success_rate"
)

// Dataset bundles the tables the control room is computed from.
type Dataset struct {
	Bank    []domain.BankRecon
	ESB     []domain.ESBFeed
	Genelco []domain.GenelcoOversight
	IFRS17  []domain.IFRS17Batch
}

func DemoDataset() Dataset {
	return Dataset{
		Bank:    BankRecon(),
		ESB:     ESBFeeds(),
		Genelco: GenelcoOversight(),
		IFRS17:  IFRS17Batches(),
	}
}

type Service interface {
	Dashboard(ctx context.Context) (domain.ControlRoom, error)
}

type service struct {
	dataset Dataset
}

func NewService(dataset Dataset) Service {
	return &service{dataset: dataset}
}

func (s *service) Dashboard(_ context.Context) (domain.ControlRoom, error) {
	return Build(s.dataset), nil
}

// Build computes the KPIs and every chart and log table of the control room.
func Build(ds Dataset) domain.ControlRoom {
	latestESB := latestESBWeek(ds.ESB)
	latestBank := latestBankWeek(ds.Bank)

	return domain.ControlRoom{
		KPIs:              kpis(ds, latestESB, latestBank),
		BankMatchTrend:    bankMatchTrend(ds.Bank),
		BankOutstanding:   bankOutstanding(ds.Bank, latestBank),
		BankControlLog:    bankControlLog(ds.Bank),
		ESBPosture:        esbPosture(ds.ESB, latestESB),
		ESBWeeklyTrend:    esbWeeklyTrend(ds.ESB),
		ESBControlLog:     esbControlLog(ds.ESB),
		GenelcoTrend:      genelcoTrend(ds.Genelco),
		GenelcoControlLog: genelcoControlLog(ds.Genelco),
		IFRS17Batches:     ifrs17Batches(ds.IFRS17),
	}
}

func kpis(ds Dataset, latestESB, latestBank time.Time) domain.ControlRoomKPIs {
	k := domain.ControlRoomKPIs{
		LatestESBWeek:  latestESB,
		LatestBankWeek: latestBank,
	}

	var total, failed int
	for _, r := range ds.ESB {
		total += r.Total
		failed += r.Failed
		if r.Week.Equal(latestESB) {
			k.ResubmissionsThisWeek += r.Resubmitted
			k.OpenESBItems += r.Open
		}
	}
	if total > 0 {
		k.ESBSuccessRate = round((1-float64(failed)/float64(total))*100, 2)
	}

	for _, r := range ds.Bank {
		if r.Week.Equal(latestBank) {
			k.OutstandingReconItems += r.Outstanding
		}
	}
	return k
}

func bankMatchTrend(rows []domain.BankRecon) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, domain.SeriesPoint{Series: r.System, X: r.Week, Y: r.MatchPct})
	}
	return points
}

func bankOutstanding(rows []domain.BankRecon, week time.Time) []domain.CategoryCount {
	var out []domain.CategoryCount
	for _, r := range rows {
		if r.Week.Equal(week) {
			out = append(out, domain.CategoryCount{Category: r.System, Status: StatusOutstanding, Count: r.Outstanding})
		}
	}
	return out
}

// bankControlLog orders the log newest week first, systems alphabetically.
func bankControlLog(rows []domain.BankRecon) []domain.BankRecon {
	out := append([]domain.BankRecon(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Week.Equal(out[j].Week) {
			return out[i].Week.After(out[j].Week)
		}
		return out[i].System < out[j].System
	})
	return out
}

// esbPosture sums failed, resubmitted and open items per feed for week,
// one block per status with feeds in alphabetical order.
func esbPosture(rows []domain.ESBFeed, week time.Time) []domain.CategoryCount {
	type posture struct{ failed, resubmitted, open int }
	byFeed := make(map[string]*posture)
	for _, r := range rows {
		if !r.Week.Equal(week) {
			continue
		}
		p, ok := byFeed[r.Feed]
		if !ok {
			p = &posture{}
			byFeed[r.Feed] = p
		}
		p.failed += r.Failed
		p.resubmitted += r.Resubmitted
		p.open += r.Open
	}

	feeds := make([]string, 0, len(byFeed))
	for f := range byFeed {
		feeds = append(feeds, f)
	}
	sort.Strings(feeds)

	out := make([]domain.CategoryCount, 0, len(feeds)*3)
	for _, status := range []string{StatusFailed, StatusResubmitted, StatusOpen} {
		for _, f := range feeds {
			p := byFeed[f]
			count := p.open
			switch status {
			case StatusFailed:
				count = p.failed
			case StatusResubmitted:
				count = p.resubmitted
			}
			out = append(out, domain.CategoryCount{Category: f, Status: status, Count: count})
		}
	}
	return out
}

func esbWeeklyTrend(rows []domain.ESBFeed) []domain.SeriesPoint {
	type totals struct{ failed, resubmitted, open int }
	byWeek := make(map[time.Time]*totals)
	var order []time.Time
	for _, r := range rows {
		t, ok := byWeek[r.Week]
		if !ok {
			t = &totals{}
			byWeek[r.Week] = t
			order = append(order, r.Week)
		}
		t.failed += r.Failed
		t.resubmitted += r.Resubmitted
		t.open += r.Open
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	out := make([]domain.SeriesPoint, 0, len(order)*3)
	for _, status := range []string{StatusFailed, StatusResubmitted, StatusOpen} {
		for _, w := range order {
			t := byWeek[w]
			y := t.open
			switch status {
			case StatusFailed:
				y = t.failed
			case StatusResubmitted:
				y = t.resubmitted
			}
			out = append(out, domain.SeriesPoint{Series: status, X: w, Y: float64(y)})
		}
	}
	return out
}

func esbControlLog(rows []domain.ESBFeed) []domain.ESBFeed {
	out := append([]domain.ESBFeed(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Week.Equal(out[j].Week) {
			return out[i].Week.Before(out[j].Week)
		}
		return strings.Compare(out[i].Feed, out[j].Feed) < 0
	})
	return out
}

func genelcoTrend(rows []domain.GenelcoOversight) []domain.SeriesPoint {
	out := make([]domain.SeriesPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SeriesPoint{Series: SeriesSuccessRate, X: r.Week, Y: r.SuccessRate})
	}
	return out
}

func genelcoControlLog(rows []domain.GenelcoOversight) []domain.GenelcoOversight {
	out := append([]domain.GenelcoOversight(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week.After(out[j].Week) })
	return out
}

func ifrs17Batches(rows []domain.IFRS17Batch) []domain.IFRS17Batch {
	out := append([]domain.IFRS17Batch(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func latestESBWeek(rows []domain.ESBFeed) time.Time {
	var latest time.Time
	for _, r := range rows {
		if r.Week.After(latest) {
			latest = r.Week
		}
	}
	return latest
}

func latestBankWeek(rows []domain.BankRecon) time.Time {
	var latest time.Time
	for _, r := range rows {
		if r.Week.After(latest) {
			latest = r.Week
		}
	}
	return latest
}

func postingPct(posted, records int) float64 {
	if records == 0 {
		return 0
	}
	return round(float64(posted)/float64(records)*100, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
