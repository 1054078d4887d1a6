// internal/database/schema.go
//
// Embedded schema bootstrap for the SQLite store.  Migration tooling is a
// separate concern; the file store just needs to exist on first run.  Every
// statement is idempotent.  MySQL deployments manage schema externally.
package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS building (
	    id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	    name                   TEXT NOT NULL,
	    url                    TEXT NOT NULL UNIQUE,
	    neighborhood           TEXT,
	    management_company     TEXT,
	    platform               TEXT NOT NULL DEFAULT '',
	    platform_key           TEXT,
	    platform_secret        TEXT,
	    last_scrape_status     TEXT NOT NULL DEFAULT 'never',
	    last_scraped_at        TIMESTAMP,
	    consecutive_zero_count INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS unit (
	    id                INTEGER PRIMARY KEY AUTOINCREMENT,
	    building_id       INTEGER NOT NULL REFERENCES building(id) ON DELETE CASCADE,
	    unit_number       TEXT NOT NULL,
	    bed_type          TEXT NOT NULL,
	    rent_cents        INTEGER NOT NULL,
	    availability_date TEXT NOT NULL,
	    floor_plan_name   TEXT,
	    floor_plan_url    TEXT,
	    baths             TEXT,
	    sqft              INTEGER,
	    non_canonical     BOOLEAN NOT NULL DEFAULT 0,
	    scrape_run_at     TIMESTAMP NOT NULL,
	    UNIQUE (building_id, unit_number)
	)`,

	`CREATE TABLE IF NOT EXISTS scrape_run (
	    id            INTEGER PRIMARY KEY AUTOINCREMENT,
	    building_id   INTEGER NOT NULL REFERENCES building(id) ON DELETE CASCADE,
	    run_at        TIMESTAMP NOT NULL,
	    status        TEXT NOT NULL,
	    unit_count    INTEGER NOT NULL DEFAULT 0,
	    error_message TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scrape_run_building ON scrape_run (building_id, run_at)`,
	`CREATE INDEX IF NOT EXISTS idx_scrape_run_run_at   ON scrape_run (run_at)`,
}

// EnsureSchema applies the embedded DDL.  Called from OpenWithOptions for
// SQLite stores; safe to call repeatedly.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
