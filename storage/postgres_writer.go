package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// PostgresWriter persists combined datasets to PostgreSQL. It is an optional
// sink, enabled only when a DSN is configured.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS car_listings (
			id            SERIAL PRIMARY KEY,
			brand         VARCHAR(50)   NOT NULL,
			model         TEXT          NOT NULL,
			year          INT           NOT NULL,
			mileage_km    INT           NOT NULL,
			transmission  VARCHAR(20)   NOT NULL,
			price         NUMERIC(12,2) NOT NULL,
			fuel          TEXT          NOT NULL DEFAULT '',
			province_city TEXT          NOT NULL DEFAULT '',
			link          TEXT          NOT NULL DEFAULT '',
			source        VARCHAR(50)   NOT NULL,
			created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_car_listings_brand ON car_listings(brand);
		CREATE INDEX IF NOT EXISTS idx_car_listings_price ON car_listings(price);
		CREATE INDEX IF NOT EXISTS idx_car_listings_year  ON car_listings(year);
	`)
	return err
}

// WriteDataset replaces the stored listings for the dataset's brand.
// The combined file is rebuilt fresh on every merge, so the table mirrors it.
func (pw *PostgresWriter) WriteDataset(dataset *models.CombinedDataset) error {
	if _, err := pw.db.Exec("DELETE FROM car_listings WHERE brand = $1", dataset.Brand); err != nil {
		return fmt.Errorf("postgres: clear brand %q: %w", dataset.Brand, err)
	}

	const batchSize = 50
	listings := dataset.Listings
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.CanonicalListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*10)

	for idx, l := range batch {
		base := idx * 10
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		valueArgs = append(valueArgs,
			l.Brand, l.Model, l.Year, l.MileageKM, string(l.Transmission),
			l.Price, l.Fuel, l.Location, l.Link, l.Source)
	}

	query := fmt.Sprintf(`
		INSERT INTO car_listings (brand, model, year, mileage_km, transmission, price, fuel, province_city, link, source)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
