package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

func NewProfilesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the data source profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := profilesReport(cmd.Context(), env)
			if err != nil {
				return err
			}
			return env.Reporter.Handle(report)
		},
	}
}

func profilesReport(ctx context.Context, env *Env) (*domain.Report, error) {
	registry, err := config.NewRegistry(env.Settings.Source.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create config registry: %w", err)
	}

	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}

	section := domain.ReportSection{
		Title:   "Profiles",
		Columns: []string{"Name", "Type", "Default"},
	}
	for _, p := range profiles {
		isDefault := ""
		if p.Name == env.Settings.Source.Profile {
			isDefault = "*"
		}
		section.Rows = append(section.Rows, []string{p.Name, string(p.Type), isDefault})
	}

	return &domain.Report{
		Title:    "Data source profiles",
		Headline: fmt.Sprintf("Loaded from %s", env.Settings.Source.Config),
		Sections: []domain.ReportSection{section},
	}, nil
}
