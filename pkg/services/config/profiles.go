package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultProfilesFile = ".priceatlascfg"

// Registry exposes the data-source profiles of an INI file. Every section
// with keys is a profile; its type key selects the source kind.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
	GetProfile(ctx context.Context, name string) (domain.ConfigProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultProfilesPath returns $HOME/.priceatlascfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfilesFile
	}
	return filepath.Join(home, DefaultProfilesFile)
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.ConfigProfile, error) {
	var profiles []domain.ConfigProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profile, err := toProfile(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.ConfigProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.ConfigProfile{}, fmt.Errorf("profile %s not found", name)
	}
	return toProfile(section)
}

func toProfile(section *ini.Section) (domain.ConfigProfile, error) {
	settings := make(map[string]string, len(section.Keys()))
	for _, key := range section.Keys() {
		if key.Name() == "type" {
			continue
		}
		settings[key.Name()] = key.String()
	}

	kind := domain.ProfileType(section.Key("type").String())
	if kind == "" && settings["host"] != "" && settings["token"] != "" {
		// plain .databrickscfg sections carry no type
		kind = domain.ProfileTypeDatabricks
	}

	switch kind {
	case domain.ProfileTypeDuckDB, domain.ProfileTypeSnowflake, domain.ProfileTypeDatabricks, domain.ProfileTypeFile:
	default:
		return domain.ConfigProfile{}, fmt.Errorf("profile %s has unsupported type %q", section.Name(), kind)
	}

	return domain.ConfigProfile{
		Name:     section.Name(),
		Type:     kind,
		Settings: settings,
	}, nil
}
