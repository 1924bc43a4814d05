package adapters

import (
	"fmt"
	"strconv"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

func MapPriceReportToReport(report *domain.PriceReport) *domain.Report {
	ref1 := report.References.Ref1.Format(domain.DateLayout)
	ref2 := report.References.Ref2.Format(domain.DateLayout)

	headline := "Overall change: undefined"
	if report.OverallChangePct != nil {
		headline = fmt.Sprintf("Overall change: %+.2f%%", *report.OverallChangePct)
	}

	out := &domain.Report{
		Title: fmt.Sprintf("Price monitoring (%s)", report.View),
		Period: domain.TimePeriod{
			Start:    report.References.Ref1,
			End:      report.References.Ref2,
			Duration: int(report.References.Ref2.Sub(report.References.Ref1).Hours() / 24),
		},
		Headline: headline,
	}

	for _, s := range report.Sections {
		section := domain.ReportSection{
			Title: s.Title,
			Summary: map[string]interface{}{
				"rows": len(s.Rows),
			},
		}
		if s.Dropped > 0 {
			section.Summary["dropped"] = s.Dropped
		}

		switch {
		case report.View == domain.ViewComparison && s.ShowBoth:
			section.Columns = []string{s.Title, ref1, ref2}
		case report.View == domain.ViewComparison:
			section.Columns = []string{s.Title, ref2}
		case report.View == domain.ViewChange:
			section.Columns = []string{s.Title, ref1, ref2, "Change"}
		default:
			section.Columns = []string{s.Title, ref1, ref2, "Change %"}
		}

		for _, r := range s.Rows {
			row := []string{r.Value}
			if len(section.Columns) > 2 {
				row = append(row, formatPrice(r.Ref1))
			}
			row = append(row, formatPrice(r.Ref2))
			if report.View != domain.ViewComparison {
				row = append(row, strconv.FormatFloat(r.Metric, 'f', 2, 64))
			}
			section.Rows = append(section.Rows, row)
		}
		out.Sections = append(out.Sections, section)
	}

	if len(report.Warnings) > 0 {
		warnings := domain.ReportSection{Title: "Warnings", Columns: []string{"Code", "Message"}}
		for _, w := range report.Warnings {
			warnings.Rows = append(warnings.Rows, []string{string(w.Code), w.Message})
		}
		out.Sections = append(out.Sections, warnings)
	}

	return out
}

func MapControlRoomToReport(cr domain.ControlRoom) *domain.Report {
	const week = "2006-01-02"

	out := &domain.Report{
		Title: "Monitoring Control Room",
		Period: domain.TimePeriod{
			Start: cr.KPIs.LatestBankWeek,
			End:   cr.KPIs.LatestESBWeek,
		},
		Headline: fmt.Sprintf("Overall ESB success rate: %.2f%%", cr.KPIs.ESBSuccessRate),
		Sections: []domain.ReportSection{{
			Title: "KPIs",
			Summary: map[string]interface{}{
				"Resubmissions this week": cr.KPIs.ResubmissionsThisWeek,
				"Open ESB items":          cr.KPIs.OpenESBItems,
				"Outstanding recon items": cr.KPIs.OutstandingReconItems,
			},
		}},
	}

	bank := domain.ReportSection{
		Title:   "Bank Reconciliation (Sunsystem / Genelco / Capsil -> VEFT)",
		Columns: []string{"Week", "System", "Match %", "Outstanding", "Note"},
	}
	for _, r := range cr.BankControlLog {
		bank.Rows = append(bank.Rows, []string{
			r.Week.Format(week), r.System, strconv.FormatFloat(r.MatchPct, 'f', 1, 64), strconv.Itoa(r.Outstanding), r.Note,
		})
	}

	esb := domain.ReportSection{
		Title:   "ESB Resubmission Posture by Feed",
		Columns: []string{"Feed", "Status", "Items"},
	}
	for _, c := range cr.ESBPosture {
		esb.Rows = append(esb.Rows, []string{c.Category, c.Status, strconv.Itoa(c.Count)})
	}

	genelco := domain.ReportSection{
		Title:   "Genelco -> SUN GL Oversight",
		Columns: []string{"Week", "Success %", "Exceptions", "Status", "Notes"},
	}
	for _, r := range cr.GenelcoControlLog {
		genelco.Rows = append(genelco.Rows, []string{
			r.Week.Format(week), strconv.FormatFloat(r.SuccessRate, 'f', 1, 64), strconv.Itoa(r.Exceptions), r.Status, r.Notes,
		})
	}

	ifrs := domain.ReportSection{
		Title:   "IFRS17 Interface (ESB to SUN GL)",
		Columns: []string{"Date", "Batch", "Records", "Posted", "Posting %", "Status"},
	}
	for _, b := range cr.IFRS17Batches {
		ifrs.Rows = append(ifrs.Rows, []string{
			b.Date.Format(week), b.BatchID, strconv.Itoa(b.Records), strconv.Itoa(b.PostedToSun),
			strconv.FormatFloat(b.PostingPct, 'f', 1, 64), b.Status,
		})
	}

	out.Sections = append(out.Sections, bank, esb, genelco, ifrs)
	return out
}

func formatPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
