package prices

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

const DefaultTable = "price_observations"

// identifier accepts plain and dotted names such as catalog.schema.table.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// Store reads price observations from a warehouse table over database/sql.
// It works with any driver that scans DATE columns into time.Time.
type Store interface {
	GetObservations(ctx context.Context) ([]store.PriceRecord, error)
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
	GetStats(ctx context.Context) (*store.PriceStats, error)
}

type warehouseStore struct {
	db    *sql.DB
	table string
}

func NewStore(db *sql.DB, table string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &warehouseStore{
		db:    db,
		table: table,
	}, nil
}

func (w *warehouseStore) GetObservations(ctx context.Context) ([]store.PriceRecord, error) {
	logger := zerolog.Ctx(ctx)
	query := fmt.Sprintf(`
		SELECT reference_date, price, category, subcategory, product_name, vendor_group_name
		FROM %s
		ORDER BY reference_date, category, subcategory, product_name, vendor_group_name
	`, w.table)

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s observations query failed: %w", w.table, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close observations query rows")
		}
	}(rows)

	records, err := ScanPriceRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s observations: %w", w.table, err)
	}

	logger.Debug().
		Str("table", w.table).
		Int("records", len(records)).
		Msg("loaded price observations")
	return records, nil
}

func (w *warehouseStore) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT reference_date
		FROM %s
		ORDER BY reference_date DESC
	`, w.table)

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s reference dates query failed: %w", w.table, err)
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

func (w *warehouseStore) GetStats(ctx context.Context) (*store.PriceStats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(DISTINCT reference_date), MIN(reference_date), MAX(reference_date)
		FROM %s
	`, w.table)

	var (
		total, dates int64
		first, last  sql.NullTime
	)
	if err := w.db.QueryRowContext(ctx, query).Scan(&total, &dates, &first, &last); err != nil {
		return nil, fmt.Errorf("get %s stats: %w", w.table, err)
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

// ScanPriceRows reads reference_date, price, category, subcategory,
// product_name and vendor_group_name columns, in that order. NULL labels
// become empty strings and a NULL price stays nil.
func ScanPriceRows(rows *sql.Rows) ([]store.PriceRecord, error) {
	records := make([]store.PriceRecord, 0)
	for rows.Next() {
		var (
			date                                   time.Time
			price                                  sql.NullFloat64
			category, subcategory, product, vendor sql.NullString
		)
		if err := rows.Scan(&date, &price, &category, &subcategory, &product, &vendor); err != nil {
			return nil, err
		}

		record := store.PriceRecord{
			ReferenceDate:   domain.Day(date),
			Category:        category.String,
			Subcategory:     subcategory.String,
			ProductName:     product.String,
			VendorGroupName: vendor.String,
		}
		if price.Valid {
			v := price.Float64
			record.Price = &v
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
