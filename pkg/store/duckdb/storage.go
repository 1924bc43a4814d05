package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const PriceObservationSequence = `
	CREATE SEQUENCE IF NOT EXISTS price_observation_seq START 1;
`

const PriceObservationSchema = `
	CREATE TABLE IF NOT EXISTS price_observations (
		id BIGINT PRIMARY KEY DEFAULT nextval('price_observation_seq'),
		reference_date DATE NOT NULL,
		price DOUBLE,
		category VARCHAR,
		subcategory VARCHAR,
		product_name VARCHAR,
		vendor_group_name VARCHAR,
		loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const PriceObservationDateIndex = `
	CREATE INDEX IF NOT EXISTS price_observations_reference_date_idx
	ON price_observations (reference_date);
`

var bootQueries = []string{
	PriceObservationSequence,
	PriceObservationSchema,
	PriceObservationDateIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
