package controlroom

import (
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

var weeks = []time.Time{day("2025-12-08"), day("2025-12-15"), day("2025-12-22"), day("2025-12-29")}

// BankRecon is the demo data for reconciling Sunsystem, Genelco and Capsil
// to the VEFT bank file.
func BankRecon() []domain.BankRecon {
	return []domain.BankRecon{
		{Week: weeks[0], System: "Sunsystem", MatchPct: 97.2, Outstanding: 7, Note: "Aging items tied to timing differences."},
		{Week: weeks[1], System: "Sunsystem", MatchPct: 98.3, Outstanding: 4, Note: "VEFT file late delivery adjusted."},
		{Week: weeks[2], System: "Sunsystem", MatchPct: 98.9, Outstanding: 3, Note: "Duplicate entries cleared."},
		{Week: weeks[3], System: "Sunsystem", MatchPct: 99.1, Outstanding: 2, Note: "Residual suspense entries under review."},
		{Week: weeks[0], System: "Genelco", MatchPct: 95.4, Outstanding: 11, Note: "Legacy policy cash items unmatched."},
		{Week: weeks[1], System: "Genelco", MatchPct: 96.8, Outstanding: 8, Note: "Mapping corrected for premium reversals."},
		{Week: weeks[2], System: "Genelco", MatchPct: 97.6, Outstanding: 6, Note: "Waiting VEFT confirmation on two items."},
		{Week: weeks[3], System: "Genelco", MatchPct: 98.2, Outstanding: 4, Note: "Control log confirms catch-up batch posted."},
		{Week: weeks[0], System: "Capsil", MatchPct: 93.9, Outstanding: 15, Note: "High volume of benefits adjustments."},
		{Week: weeks[1], System: "Capsil", MatchPct: 95.5, Outstanding: 10, Note: "ESB replay cleared older suspense lines."},
		{Week: weeks[2], System: "Capsil", MatchPct: 96.7, Outstanding: 8, Note: "Two-day lag from VEFT file receipt."},
		{Week: weeks[3], System: "Capsil", MatchPct: 97.4, Outstanding: 6, Note: "Pending validation of refunds."},
	}
}

// ESBFeeds is the demo data for ESB failures and resubmissions to SUN GL.
func ESBFeeds() []domain.ESBFeed {
	type counts struct{ total, failed, resubmitted, open int }
	feeds := []struct {
		name  string
		weeks [4]counts
	}{
		{"BEL", [4]counts{{520, 6, 5, 1}, {530, 4, 4, 0}, {525, 3, 3, 0}, {540, 2, 2, 0}}},
		{"CAB", [4]counts{{430, 5, 4, 1}, {435, 4, 4, 0}, {440, 4, 3, 1}, {450, 3, 3, 0}}},
		{"SLA", [4]counts{{310, 4, 3, 1}, {320, 3, 3, 0}, {318, 2, 2, 0}, {322, 2, 2, 0}}},
		{"SLB", [4]counts{{290, 3, 2, 1}, {295, 3, 3, 0}, {292, 2, 2, 0}, {298, 2, 2, 0}}},
		{"SLT", [4]counts{{255, 3, 2, 1}, {258, 2, 2, 0}, {262, 2, 2, 0}, {265, 1, 1, 0}}},
		{"SOT", [4]counts{{210, 4, 3, 1}, {215, 3, 3, 0}, {220, 2, 2, 0}, {225, 2, 2, 0}}},
		{"SSL", [4]counts{{240, 2, 2, 0}, {245, 2, 2, 0}, {250, 1, 1, 0}, {255, 1, 1, 0}}},
	}

	rows := make([]domain.ESBFeed, 0, len(feeds)*len(weeks))
	for _, f := range feeds {
		for i, c := range f.weeks {
			rows = append(rows, domain.ESBFeed{
				Week:        weeks[i],
				Feed:        f.name,
				Total:       c.total,
				Failed:      c.failed,
				Resubmitted: c.resubmitted,
				Open:        c.open,
			})
		}
	}
	return rows
}

// GenelcoOversight is the demo data for weekly oversight of Genelco -> SUN GL.
func GenelcoOversight() []domain.GenelcoOversight {
	const feed = "Genelco -> SUN"
	return []domain.GenelcoOversight{
		{Week: weeks[0], Feed: feed, SuccessRate: 98.4, Exceptions: 3, Status: "Stable", Notes: "Three reversals required manual coding."},
		{Week: weeks[1], Feed: feed, SuccessRate: 99.0, Exceptions: 2, Status: "Improving", Notes: "Control log cleanup post policy migration."},
		{Week: weeks[2], Feed: feed, SuccessRate: 98.7, Exceptions: 3, Status: "Stable", Notes: "Two suspense items pending client confirmation."},
		{Week: weeks[3], Feed: feed, SuccessRate: 99.3, Exceptions: 1, Status: "Stable", Notes: "Weekly/monthly reporting ready for Finance review."},
	}
}

// IFRS17Batches is the demo data for IFRS17 postings from ESB to SUN GL.
func IFRS17Batches() []domain.IFRS17Batch {
	batches := []domain.IFRS17Batch{
		{Date: day("2025-12-23"), BatchID: "IFRS17-1223-A", Records: 1850, PostedToSun: 1846, Status: "Posted", Comment: "Four policies requeued for delta posting."},
		{Date: day("2025-12-24"), BatchID: "IFRS17-1224-A", Records: 1920, PostedToSun: 1918, Status: "Posted", Comment: "Two valuation lines reviewed by Finance."},
		{Date: day("2025-12-26"), BatchID: "IFRS17-1226-A", Records: 2050, PostedToSun: 2045, Status: "Posted", Comment: "GL acceptance confirmed; minor rounding noted."},
		{Date: day("2025-12-27"), BatchID: "IFRS17-1227-A", Records: 2105, PostedToSun: 2101, Status: "Posted", Comment: "ESB latency improved after patch."},
		{Date: day("2025-12-29"), BatchID: "IFRS17-1229-A", Records: 2250, PostedToSun: 2244, Status: "In Progress", Comment: "Six records under review for account mapping."},
		{Date: day("2025-12-30"), BatchID: "IFRS17-1230-A", Records: 2180, PostedToSun: 0, Status: "Queued", Comment: "Awaiting Finance sign-off on batch keys."},
	}
	for i := range batches {
		batches[i].PostingPct = postingPct(batches[i].PostedToSun, batches[i].Records)
	}
	return batches
}
