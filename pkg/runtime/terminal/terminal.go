package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/price-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/price-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/price-atlas/pkg/services/config"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/store/source"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Sources     source.Registry
	ControlRoom controlroom.Service
	Output      io.Writer
	// LogOutput defaults to stderr.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sources == nil {
		opts.Sources = source.NewDefaultRegistry()
	}
	if opts.ControlRoom == nil {
		opts.ControlRoom = controlroom.NewService(controlroom.DemoDataset())
	}

	cli := &CLI{
		env: &commands.Env{
			Viper:    config.NewViper(),
			Sources:  opts.Sources,
			Reporter: export.NewReporter(opts.Output),
			Output:   opts.Output,
			LogOut:   opts.LogOutput,
		},
	}

	cli.rootCmd = cli.newRootCmd(opts.ControlRoom)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(controlRoom controlroom.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "price-atlas",
		Short:             "Price monitoring and control room tool",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.env.Load,
	}
	cli.env.BindFlags(cmd)

	cmd.AddCommand(commands.NewPricesCmd(cli.env))
	cmd.AddCommand(commands.NewControlRoomCmd(cli.env, controlRoom))
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))

	return cmd
}
