package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/store/duckdb"
	duckprices "github.com/de-tools/price-atlas/pkg/store/duckdb/prices"
	fileprices "github.com/de-tools/price-atlas/pkg/store/file/prices"
	sqlprices "github.com/de-tools/price-atlas/pkg/store/sql/prices"
	sf "github.com/snowflakedb/gosnowflake"
)

// DuckDBFactory opens a local DuckDB file. Keys: path (":memory:" allowed),
// threads.
func DuckDBFactory(_ context.Context, profile domain.ConfigProfile) (*Source, error) {
	path := profile.Setting("path", "")
	if path == "" {
		return nil, fmt.Errorf("duckdb profile requires path")
	}

	threads, err := intSetting(profile, "threads", 4)
	if err != nil {
		return nil, err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path, Threads: threads})
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}

	s, err := duckprices.NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	src := NewSource(profile, s, db.Close)
	src.DB = db
	return src, nil
}

// SnowflakeConfig maps a profile onto the driver config. A dsn key wins over
// the individual fields.
func SnowflakeConfig(profile domain.ConfigProfile) (*sf.Config, error) {
	if dsn := profile.Setting("dsn", ""); dsn != "" {
		return sf.ParseDSN(dsn)
	}

	cfg := &sf.Config{
		Account:   profile.Setting("account", ""),
		User:      profile.Setting("user", ""),
		Password:  profile.Setting("password", ""),
		Database:  profile.Setting("database", ""),
		Schema:    profile.Setting("schema", ""),
		Warehouse: profile.Setting("warehouse", ""),
		Role:      profile.Setting("role", ""),
	}
	if cfg.Account == "" || cfg.User == "" {
		return nil, fmt.Errorf("snowflake profile requires account and user")
	}
	return cfg, nil
}

func SnowflakeFactory(_ context.Context, profile domain.ConfigProfile) (*Source, error) {
	cfg, err := SnowflakeConfig(profile)
	if err != nil {
		return nil, err
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return warehouseSource(profile, db)
}

// DatabricksConnectorOptions maps a profile onto SQL warehouse connector
// options. Keys: host, http_path, token, port, catalog, schema.
func DatabricksConnectorOptions(profile domain.ConfigProfile) ([]dbsql.ConnOption, error) {
	host := profile.Setting("host", "")
	httpPath := profile.Setting("http_path", "")
	token := profile.Setting("token", "")
	if host == "" || httpPath == "" || token == "" {
		return nil, fmt.Errorf("databricks profile requires host, http_path and token")
	}

	port, err := intSetting(profile, "port", 443)
	if err != nil {
		return nil, err
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(host),
		dbsql.WithPort(port),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(token),
	}
	if catalog, schema := profile.Setting("catalog", ""), profile.Setting("schema", ""); catalog != "" || schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(catalog, schema))
	}
	return opts, nil
}

func DatabricksFactory(_ context.Context, profile domain.ConfigProfile) (*Source, error) {
	opts, err := DatabricksConnectorOptions(profile)
	if err != nil {
		return nil, err
	}

	connector, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	return warehouseSource(profile, sql.OpenDB(connector))
}

// FileFactory reads a CSV or Parquet file. Keys: uri, format, region.
func FileFactory(ctx context.Context, profile domain.ConfigProfile) (*Source, error) {
	uri := profile.Setting("uri", profile.Setting("path", ""))
	if uri == "" {
		return nil, fmt.Errorf("file profile requires uri")
	}

	var opener fileprices.Opener
	if fileprices.IsS3URI(uri) {
		o, err := fileprices.NewDefaultS3Opener(ctx, profile.Setting("region", ""))
		if err != nil {
			return nil, err
		}
		opener = o
	}

	s, err := fileprices.NewStore(uri, fileprices.Format(profile.Setting("format", "")), opener)
	if err != nil {
		return nil, err
	}
	return NewSource(profile, s, nil), nil
}

func warehouseSource(profile domain.ConfigProfile, db *sql.DB) (*Source, error) {
	s, err := sqlprices.NewStore(db, profile.Setting("table", sqlprices.DefaultTable))
	if err != nil {
		db.Close()
		return nil, err
	}
	return NewSource(profile, s, db.Close), nil
}

func intSetting(profile domain.ConfigProfile, key string, fallback int) (int, error) {
	raw := profile.Setting(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
