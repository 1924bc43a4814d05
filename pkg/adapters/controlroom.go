package adapters

import (
	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
)

func MapControlRoomDomainToApi(cr domain.ControlRoom) api.ControlRoom {
	out := api.ControlRoom{
		KPIs: api.ControlRoomKPIs{
			ESBSuccessRate:        cr.KPIs.ESBSuccessRate,
			LatestESBWeek:         cr.KPIs.LatestESBWeek,
			ResubmissionsThisWeek: cr.KPIs.ResubmissionsThisWeek,
			OpenESBItems:          cr.KPIs.OpenESBItems,
			LatestBankWeek:        cr.KPIs.LatestBankWeek,
			OutstandingReconItems: cr.KPIs.OutstandingReconItems,
		},
		BankMatchTrend:    mapSeries(cr.BankMatchTrend),
		BankOutstanding:   mapCounts(cr.BankOutstanding),
		ESBPosture:        mapCounts(cr.ESBPosture),
		ESBWeeklyTrend:    mapSeries(cr.ESBWeeklyTrend),
		GenelcoTrend:      mapSeries(cr.GenelcoTrend),
		BankControlLog:    make([]api.BankRecon, 0, len(cr.BankControlLog)),
		ESBControlLog:     make([]api.ESBFeed, 0, len(cr.ESBControlLog)),
		GenelcoControlLog: make([]api.GenelcoOversight, 0, len(cr.GenelcoControlLog)),
		IFRS17Batches:     make([]api.IFRS17Batch, 0, len(cr.IFRS17Batches)),
	}

	for _, r := range cr.BankControlLog {
		out.BankControlLog = append(out.BankControlLog, api.BankRecon(r))
	}
	for _, r := range cr.ESBControlLog {
		out.ESBControlLog = append(out.ESBControlLog, api.ESBFeed(r))
	}
	for _, r := range cr.GenelcoControlLog {
		out.GenelcoControlLog = append(out.GenelcoControlLog, api.GenelcoOversight(r))
	}
	for _, r := range cr.IFRS17Batches {
		out.IFRS17Batches = append(out.IFRS17Batches, api.IFRS17Batch(r))
	}

	return out
}

func mapSeries(points []domain.SeriesPoint) []api.SeriesPoint {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint(p))
	}
	return out
}

func mapCounts(counts []domain.CategoryCount) []api.CategoryCount {
	out := make([]api.CategoryCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, api.CategoryCount(c))
	}
	return out
}
