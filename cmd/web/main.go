package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/price-atlas/pkg/server"
	"github.com/de-tools/price-atlas/pkg/services/config"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/de-tools/price-atlas/pkg/store/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settingsPath string

func main() {
	v := config.NewViper()

	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Price Atlas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, v)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&settingsPath, "settings", "s", "", "Path to a YAML settings file")
	flags.StringP("config", "c", "", "Path to the profiles file (default is $HOME/.priceatlascfg)")
	flags.StringP("profile", "p", "", "Name of the data source profile to serve")
	flags.Int("port", 0, "Port to listen on")

	_ = v.BindPFlag("source.config", flags.Lookup("config"))
	_ = v.BindPFlag("source.profile", flags.Lookup("profile"))
	_ = v.BindPFlag("server.port", flags.Lookup("port"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, v *viper.Viper) error {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(v, settingsPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(settings.Log, os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	profiles, err := config.NewRegistry(settings.Source.Config)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", settings.Source.Config)
	logger.Info().Msgf("Found the following profiles:")
	all, _ := profiles.GetProfiles(ctx)
	for _, profile := range all {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", profile.Name, profile.Type)
	}

	profile, err := profiles.GetProfile(ctx, settings.Source.Profile)
	if err != nil {
		return err
	}

	src, err := source.NewDefaultRegistry().Open(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to open price source: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close price source")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	web, err := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(settings.Server.Host, strconv.Itoa(settings.Server.Port)),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		APIToken:        settings.Server.APIToken,
		Dependencies: server.Dependencies{
			Pricing:     pricing.NewService(src.Store),
			ControlRoom: controlroom.NewService(controlroom.DemoDataset()),
			Logger:      logger,
			Metrics:     registry,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	if settings.Server.APIToken == "" {
		logger.Warn().Msg("no api token configured, every request is authorized")
	}
	logger.Info().Str("profile", profile.String()).Msg("serving price source")

	return web.Start()
}
