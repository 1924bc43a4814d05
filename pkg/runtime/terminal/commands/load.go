package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/de-tools/price-atlas/pkg/store/duckdb"
	fileprices "github.com/de-tools/price-atlas/pkg/store/file/prices"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type loadCmd struct {
	env     *Env
	file    string
	format  string
	region  string
	replace bool
}

func newLoadCmd(env *Env) *cobra.Command {
	lc := &loadCmd{env: env}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Ingest a CSV or Parquet file into a DuckDB profile",
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.file, "file", "", "Local path or s3://bucket/key of the observations file")
	cmd.Flags().StringVar(&lc.format, "format", "", "File format (csv or parquet), detected from the extension by default")
	cmd.Flags().StringVar(&lc.region, "region", "", "AWS region for s3:// files")
	cmd.Flags().BoolVar(&lc.replace, "replace", false, "Delete existing observations before loading")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (lc *loadCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	var opener fileprices.Opener
	if fileprices.IsS3URI(lc.file) {
		o, err := fileprices.NewDefaultS3Opener(ctx, lc.region)
		if err != nil {
			return err
		}
		opener = o
	}

	input, err := fileprices.NewStore(lc.file, fileprices.Format(lc.format), opener)
	if err != nil {
		return err
	}
	records, err := input.GetObservations(ctx)
	if err != nil {
		return err
	}

	dataset, err := adapters.MapStorePriceRecordsToDataset(records)
	if err != nil {
		return err
	}
	if err := comparator.ValidateDataset(dataset); err != nil {
		return err
	}

	src, err := lc.env.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(ctx, src)

	loader, ok := src.Loader()
	if !ok {
		return fmt.Errorf("profile %s does not accept loads", src.Profile)
	}

	write := func(ctx context.Context) error {
		if lc.replace {
			if err := loader.Truncate(ctx); err != nil {
				return err
			}
		}
		return loader.Add(ctx, records)
	}

	if src.DB == nil {
		err = write(ctx)
	} else {
		err = duckdb.RunInTransaction(ctx, src.DB, write)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", lc.file, err)
	}

	logger.Info().
		Str("file", lc.file).
		Str("profile", src.Profile.Name).
		Int("records", len(records)).
		Msg("observations loaded")
	_, err = fmt.Fprintf(lc.env.Output, "Loaded %d observations into %s\n", len(records), src.Profile)
	return err
}
