package source

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
)

// Store is the read side every price source provides.
type Store interface {
	GetObservations(ctx context.Context) ([]store.PriceRecord, error)
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
	GetStats(ctx context.Context) (*store.PriceStats, error)
}

// Loader is implemented by sources that accept ingested observations.
type Loader interface {
	Store
	Add(ctx context.Context, records []store.PriceRecord) error
	Truncate(ctx context.Context) error
}

// Source is an opened price store plus whatever must be released with it.
type Source struct {
	Profile domain.ConfigProfile
	Store   Store
	// DB is set for sources backed by an embedded database so callers can
	// group writes in a transaction.
	DB    *sql.DB
	close func() error
}

func NewSource(profile domain.ConfigProfile, s Store, closeFn func() error) *Source {
	return &Source{Profile: profile, Store: s, close: closeFn}
}

// Loader returns the store as a Loader when the source accepts writes.
func (s *Source) Loader() (Loader, bool) {
	l, ok := s.Store.(Loader)
	return l, ok
}

func (s *Source) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Factory opens a source described by a profile.
type Factory func(ctx context.Context, profile domain.ConfigProfile) (*Source, error)

// Registry manages source factories per profile type
type Registry interface {
	// Register adds a new factory for a profile type
	Register(kind domain.ProfileType, factory Factory) error
	// Open instantiates the source of the profile's type
	Open(ctx context.Context, profile domain.ConfigProfile) (*Source, error)
	// ListTypes returns the registered profile types, sorted
	ListTypes() []domain.ProfileType
}

type registry struct {
	mu        sync.RWMutex
	factories map[domain.ProfileType]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[domain.ProfileType]Factory),
	}
}

// NewDefaultRegistry registers the built-in DuckDB, Snowflake, Databricks
// and file factories.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(domain.ProfileTypeDuckDB, DuckDBFactory)
	_ = r.Register(domain.ProfileTypeSnowflake, SnowflakeFactory)
	_ = r.Register(domain.ProfileTypeDatabricks, DatabricksFactory)
	_ = r.Register(domain.ProfileTypeFile, FileFactory)
	return r
}

func (r *registry) Register(kind domain.ProfileType, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("profile type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("profile type %q is already registered", kind)
	}

	r.factories[kind] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, profile domain.ConfigProfile) (*Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[profile.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("profile type %q is not registered", profile.Type)
	}

	src, err := factory(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", profile, err)
	}
	return src, nil
}

func (r *registry) ListTypes() []domain.ProfileType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ProfileType, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})
	return kinds
}
