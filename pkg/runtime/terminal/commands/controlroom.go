package commands

import (
	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/spf13/cobra"
)

func NewControlRoomCmd(env *Env, svc controlroom.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "control-room",
		Short: "Show the monitoring control room KPIs and tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, err := svc.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.Handle(adapters.MapControlRoomToReport(dashboard))
		},
	}
}
