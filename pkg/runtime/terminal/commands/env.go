package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/price-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/price-atlas/pkg/services/config"
	"github.com/de-tools/price-atlas/pkg/store/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const commandTimeout = 60 * time.Second

// Env carries what every command needs once the root command has loaded
// the settings.
type Env struct {
	Viper    *viper.Viper
	Sources  source.Registry
	Reporter *export.Reporter
	Output   io.Writer
	LogOut   io.Writer

	SettingsFile string
	Settings     *config.Settings
	Logger       zerolog.Logger
}

// BindFlags registers the persistent flags shared by every command and binds
// them to their settings keys.
func (e *Env) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&e.SettingsFile, "settings", "", "Path to a YAML settings file")
	flags.String("config", "", "Path to the profiles file (default is $HOME/.priceatlascfg)")
	flags.String("profile", "", "Name of the data source profile")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	_ = e.Viper.BindPFlag("source.config", flags.Lookup("config"))
	_ = e.Viper.BindPFlag("source.profile", flags.Lookup("profile"))
	_ = e.Viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

// Load reads .env, the settings and builds the logger. It runs before every
// command.
func (e *Env) Load(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	settings, err := config.LoadSettings(e.Viper, e.SettingsFile)
	if err != nil {
		return err
	}
	e.Settings = settings

	out := e.LogOut
	if out == nil {
		out = os.Stderr
	}
	logger, err := config.NewLogger(settings.Log, out)
	if err != nil {
		return err
	}
	e.Logger = logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}

// OpenSource resolves the configured profile and opens its price source.
func (e *Env) OpenSource(ctx context.Context) (*source.Source, error) {
	profiles, err := config.NewRegistry(e.Settings.Source.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create config registry: %w", err)
	}

	profile, err := profiles.GetProfile(ctx, e.Settings.Source.Profile)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("profile", profile.Name).
		Str("type", string(profile.Type)).
		Msg("opening price source")
	return e.Sources.Open(ctx, profile)
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

func closeSource(ctx context.Context, src *source.Source) {
	if err := src.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close price source")
	}
}
