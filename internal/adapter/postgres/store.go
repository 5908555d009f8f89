// Package postgres is the transactional store for realtime and archive
// outage tables. Realtime tables always reflect the latest cycle; archive
// tables are append-only history.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

const (
	deleteCountySQL = `DELETE FROM realtime_power_outages_county WHERE provider = $1`
	deleteZipSQL    = `DELETE FROM realtime_power_outages_zipcodes WHERE provider = $1`

	insertCountySQL = `
		INSERT INTO realtime_power_outages_county (state, county, outage, provider, updated, created)
		VALUES ($1, $2, $3, $4, $5, $6)`
	insertZipSQL = `
		INSERT INTO realtime_power_outages_zipcodes (zipcode, provider, outage, created, updated)
		VALUES ($1, $2, $3, $4, $5)`

	insertZipArchiveSQL = `
		INSERT INTO archive_power_outages_zipcode (zipcode, provider, outage, created, updated, archived)
		VALUES ($1, $2, $3, $4, $5, $5)`
	insertCountyArchiveSQL = `
		INSERT INTO archive_power_outages_county (state, county, outage, updated, archived, percentage)
		VALUES ($1, $2, $3, $4, $4, $5)`

	selectCountyViewSQL = `
		SELECT state, county, outage, updated, percentage
		FROM power_outages_view_for_archive
		WHERE state IS NOT NULL`

	updateCustomerCountSQL = `
		UPDATE realtime_power_outages_county_customers
		SET customers = $1 WHERE county = $2`

	touchTaskTrackingSQL = `
		UPDATE realtime_task_tracking
		SET last_run = $1, data_generated = $1 WHERE task_name = 'PowerOutage'`
)

// Store wraps a pgx connection pool with the outage table operations.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Open connects a pool and verifies it with a ping.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(pool, logger), nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// ReplaceRealtime swaps one provider's rows in the realtime table for the
// given cycle's records. Delete and insert share a transaction so readers
// never observe a provider partially written or missing.
func (s *Store) ReplaceRealtime(ctx context.Context, provider string, style domain.AreaType, outages []domain.Outage, created, updated time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin realtime replace: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteSQL := deleteCountySQL
	if style == domain.Zip {
		deleteSQL = deleteZipSQL
	}
	tag, err := tx.Exec(ctx, deleteSQL, provider)
	if err != nil {
		return fmt.Errorf("delete %s %s realtime rows: %w", provider, style, err)
	}
	s.logger.Info("realtime rows deleted", "provider", provider, "style", style, "rows", tag.RowsAffected())

	batch := &pgx.Batch{}
	for _, o := range outages {
		if style == domain.Zip {
			batch.Queue(insertZipSQL, o.Area, o.Provider, o.Outages, created, updated)
		} else {
			batch.Queue(insertCountySQL, o.State, o.Area, o.Outages, o.Provider, updated, created)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s %s realtime rows: %w", provider, style, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit realtime replace: %w", err)
	}
	return nil
}

// ArchiveZips appends the cycle's aggregated zip records to the zip
// archive table.
func (s *Store) ArchiveZips(ctx context.Context, records []domain.AggregatedZipRecord) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertZipArchiveSQL, r.Zip, r.Provider, r.Outages, r.DateCreated, r.DateUpdated)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("append zip archive rows: %w", err)
	}
	return nil
}

// countyArchiveRow mirrors the archive view's columns.
type countyArchiveRow struct {
	State      string
	County     string
	Outage     int
	Updated    time.Time
	Percentage float64
}

// ForwardCountyArchive copies the county archive view, which joins
// realtime outages with customer counts into a percent-affected figure,
// into the county archive table. Percentages are rounded to three
// decimal places on the way in.
func (s *Store) ForwardCountyArchive(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, selectCountyViewSQL)
	if err != nil {
		return fmt.Errorf("read county archive view: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (countyArchiveRow, error) {
		var r countyArchiveRow
		err := row.Scan(&r.State, &r.County, &r.Outage, &r.Updated, &r.Percentage)
		return r, err
	})
	if err != nil {
		return fmt.Errorf("scan county archive view: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		percentage := math.Round(r.Percentage*1000) / 1000
		batch.Queue(insertCountyArchiveSQL, r.State, r.County, r.Outage, r.Updated, percentage)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("append county archive rows: %w", err)
	}
	s.logger.Info("county archive forwarded", "rows", len(records))
	return nil
}

// UpdateCustomerCounts writes refreshed per-county customer counts to the
// realtime customers table.
func (s *Store) UpdateCustomerCounts(ctx context.Context, counts map[string]int) error {
	batch := &pgx.Batch{}
	for county, customers := range counts {
		batch.Queue(updateCustomerCountSQL, customers, county)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update customer counts: %w", err)
	}
	return nil
}

// TouchTaskTracking stamps the task tracking row so operators can see the
// process completed a cycle.
func (s *Store) TouchTaskTracking(ctx context.Context, now time.Time) error {
	if _, err := s.pool.Exec(ctx, touchTaskTrackingSQL, now); err != nil {
		return fmt.Errorf("touch task tracking: %w", err)
	}
	return nil
}
