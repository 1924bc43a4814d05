package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/spf13/cobra"
)

func NewPricesCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Compare average prices between two reference dates",
	}

	cmd.AddCommand(newCompareCmd(env))
	cmd.AddCommand(newDatesCmd(env))
	cmd.AddCommand(newLoadCmd(env))
	cmd.AddCommand(newExportCmd(env))
	return cmd
}

type compareCmd struct {
	env      *Env
	ref1     string
	ref2     string
	view     string
	sortBy   string
	category string
	json     bool
}

func newCompareCmd(env *Env) *cobra.Command {
	cc := &compareCmd{env: env}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Build the price comparison dashboard",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.ref1, "ref1", "", "First reference date (YYYY-MM-DD), defaults to the previous date")
	cmd.Flags().StringVar(&cc.ref2, "ref2", "", "Second reference date (YYYY-MM-DD), defaults to the latest date")
	cmd.Flags().StringVar(&cc.view, "view", string(domain.ViewComparison), "View: comparison, change or percentage_change")
	cmd.Flags().StringVar(&cc.sortBy, "sort", "", "Row order: value, metric_asc or metric_desc")
	cmd.Flags().StringVar(&cc.category, "category", "", "Restrict the comparison to one category")
	cmd.Flags().BoolVar(&cc.json, "json", false, "Print the report as JSON")

	return cmd
}

func (cc *compareCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	ctx = session.WithSession(ctx, session.Session{Authorized: true, Subject: "cli"})
	if cc.ref1 != "" || cc.ref2 != "" {
		if cc.ref1 == "" || cc.ref2 == "" {
			return fmt.Errorf("--ref1 and --ref2 must be set together")
		}
		d1, err := time.Parse(domain.DateLayout, cc.ref1)
		if err != nil {
			return fmt.Errorf("invalid --ref1: %w", err)
		}
		d2, err := time.Parse(domain.DateLayout, cc.ref2)
		if err != nil {
			return fmt.Errorf("invalid --ref2: %w", err)
		}
		ctx = session.WithReferences(ctx, domain.NewReferencePair(d1, d2))
	}

	src, err := cc.env.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(ctx, src)

	report, err := pricing.NewService(src.Store).BuildReport(ctx, pricing.ReportOptions{
		View:     domain.View(cc.view),
		SortBy:   domain.SortOrder(cc.sortBy),
		Category: cc.category,
	})
	if err != nil {
		return fmt.Errorf("failed to build price report: %w", err)
	}

	if cc.json {
		enc := json.NewEncoder(cc.env.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapPriceReportDomainToApi(report))
	}
	return cc.env.Reporter.Handle(adapters.MapPriceReportToReport(report))
}

func newDatesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List the available reference dates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			src, err := env.OpenSource(ctx)
			if err != nil {
				return err
			}
			defer closeSource(ctx, src)

			svc := pricing.NewService(src.Store)
			dates, err := svc.ListReferenceDates(ctx)
			if err != nil {
				return err
			}

			report := &domain.Report{
				Title:    fmt.Sprintf("Reference dates (%s)", src.Profile),
				Headline: "No observations yet",
			}
			section := domain.ReportSection{
				Title:   "Dates",
				Columns: []string{"Reference date"},
				Summary: map[string]interface{}{"dates": len(dates)},
			}
			for _, d := range dates {
				section.Rows = append(section.Rows, []string{d.Format(domain.DateLayout)})
			}

			stats, err := src.Store.GetStats(ctx)
			if err != nil {
				return err
			}
			section.Summary["records"] = stats.RecordsCount
			if stats.FirstDate != nil && stats.LastDate != nil {
				section.Summary["first"] = stats.FirstDate.Format(domain.DateLayout)
				section.Summary["last"] = stats.LastDate.Format(domain.DateLayout)
				report.Period = domain.TimePeriod{
					Start:    *stats.FirstDate,
					End:      *stats.LastDate,
					Duration: int(stats.LastDate.Sub(*stats.FirstDate).Hours() / 24),
				}
			}
			report.Sections = append(report.Sections, section)

			if len(dates) > 0 {
				pair, err := svc.DefaultReferences(ctx)
				if err != nil {
					return err
				}
				report.Headline = fmt.Sprintf("Default comparison: %s -> %s",
					pair.Ref1.Format(domain.DateLayout), pair.Ref2.Format(domain.DateLayout))
			}

			return env.Reporter.Handle(report)
		},
	}
}
