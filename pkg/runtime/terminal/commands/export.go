package commands

import (
	"fmt"
	"os"

	fileprices "github.com/de-tools/price-atlas/pkg/store/file/prices"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type exportCmd struct {
	env    *Env
	file   string
	format string
}

func newExportCmd(env *Env) *cobra.Command {
	ec := &exportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the observations of a profile to a CSV or Parquet file",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.file, "file", "", "Local path of the file to write")
	cmd.Flags().StringVar(&ec.format, "format", "", "File format (csv or parquet), detected from the extension by default")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ec *exportCmd) run(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := withTimeout(cmd)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	if fileprices.IsS3URI(ec.file) {
		return fmt.Errorf("export writes local files only: %s", ec.file)
	}

	var format fileprices.Format
	if ec.format != "" {
		format, err = fileprices.ParseFormat(ec.format)
	} else {
		format, err = fileprices.DetectFormat(ec.file)
	}
	if err != nil {
		return err
	}

	src, err := ec.env.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(ctx, src)

	records, err := src.Store.GetObservations(ctx)
	if err != nil {
		return err
	}

	out, err := os.Create(ec.file)
	if err != nil {
		return fmt.Errorf("create %s: %w", ec.file, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", ec.file, cerr)
		}
	}()

	if err := fileprices.Encode(out, records, format); err != nil {
		return fmt.Errorf("failed to export %s: %w", ec.file, err)
	}

	logger.Info().
		Str("file", ec.file).
		Str("profile", src.Profile.Name).
		Int("records", len(records)).
		Msg("observations exported")
	_, err = fmt.Fprintf(ec.env.Output, "Exported %d observations from %s\n", len(records), src.Profile)
	return err
}
