package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "PRICE_ATLAS"

type Settings struct {
	Server ServerSettings `mapstructure:"server"`
	Source SourceSettings `mapstructure:"source"`
	Log    LogSettings    `mapstructure:"log"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
	APIToken        string        `mapstructure:"api_token"`
}

type SourceSettings struct {
	Profile string `mapstructure:"profile"`
	Config  string `mapstructure:"config"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.api_token", "")
	v.SetDefault("source.profile", "default")
	v.SetDefault("source.config", DefaultProfilesPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// NewViper returns a viper instance reading PRICE_ATLAS_* variables, e.g.
// PRICE_ATLAS_SERVER_PORT for server.port.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnvFile loads a .env file into the process environment. A missing
// file is not an error.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadSettings reads the optional settings file into v and validates the
// result. Environment variables override file values.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}
