package prices

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/de-tools/price-atlas/pkg/store/duckdb"
	sqlprices "github.com/de-tools/price-atlas/pkg/store/sql/prices"
)

// Store keeps price observations in DuckDB. Reads return rows in insertion
// order so aggregation sees the same first-appearance order as the source.
type Store interface {
	Add(ctx context.Context, records []store.PriceRecord) error
	GetObservations(ctx context.Context) ([]store.PriceRecord, error)
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
	GetStats(ctx context.Context) (*store.PriceStats, error)
	Truncate(ctx context.Context) error
}

type priceStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &priceStore{
		db: db,
	}, nil
}

func (p *priceStore) Add(ctx context.Context, records []store.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO price_observations (
			reference_date, price, category, subcategory, product_name, vendor_group_name
		) VALUES (
			?, ?, ?, ?, ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = p.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			domain.Day(record.ReferenceDate).Format(domain.DateLayout),
			record.Price,
			record.Category,
			record.Subcategory,
			record.ProductName,
			record.VendorGroupName,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return nil
}

func (p *priceStore) GetObservations(ctx context.Context) ([]store.PriceRecord, error) {
	query := `
		SELECT reference_date, price, category, subcategory, product_name, vendor_group_name
		FROM price_observations
		ORDER BY id
	`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()
	return sqlprices.ScanPriceRows(rows)
}

func (p *priceStore) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT reference_date
		FROM price_observations
		ORDER BY reference_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query reference dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, domain.Day(d))
	}
	return dates, rows.Err()
}

func (p *priceStore) GetStats(ctx context.Context) (*store.PriceStats, error) {
	query := `
		SELECT COUNT(*), COUNT(DISTINCT reference_date), MIN(reference_date), MAX(reference_date)
		FROM price_observations
	`
	var (
		total, dates int64
		first, last  sql.NullTime
	)
	if err := p.db.QueryRowContext(ctx, query).Scan(&total, &dates, &first, &last); err != nil {
		return nil, fmt.Errorf("get price stats: %w", err)
	}

	stats := &store.PriceStats{RecordsCount: total, DatesCount: dates}
	if first.Valid {
		t := domain.Day(first.Time)
		stats.FirstDate = &t
	}
	if last.Valid {
		t := domain.Day(last.Time)
		stats.LastDate = &t
	}
	return stats, nil
}

func (p *priceStore) Truncate(ctx context.Context) error {
	query := `DELETE FROM price_observations`
	var err error
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		_, err = tx.ExecContext(ctx, query)
	} else {
		_, err = p.db.ExecContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("truncate observations: %w", err)
	}
	return nil
}
