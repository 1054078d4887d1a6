// Package building holds thin data-access helpers for the persistent
// `building` table.  Each helper is a single-purpose query, returning a
// strongly typed struct so callers do not repeat column names.
//
// Rows are keyed externally on `url`: the registry sync upserts on it and
// retires rows absent upstream.  Scrapers only ever update the scrape-state
// columns (last_scrape_status, last_scraped_at, consecutive_zero_count).
package building

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound  = errors.New("building not found")
	ErrAmbiguous = errors.New("building name matches more than one row")
)

const columns = `id, name, url, neighborhood, management_company, platform,
        platform_key, platform_secret, last_scrape_status, last_scraped_at,
        consecutive_zero_count`

// ByID fetches one building.  Callers translate sql.ErrNoRows via ErrNotFound.
func ByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*Record, error) {
	var rec Record
	err := sqlx.GetContext(ctx, q, &rec,
		`SELECT `+columns+` FROM building WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ByNameMatch resolves a CLI-supplied partial name.  An exact match wins
// outright; otherwise a single substring match is accepted, and multiple
// substring matches are ambiguous.
func ByNameMatch(ctx context.Context, q sqlx.QueryerContext, name string) (*Record, error) {
	var exact Record
	err := sqlx.GetContext(ctx, q, &exact,
		`SELECT `+columns+` FROM building WHERE name = ? ORDER BY id LIMIT 1`, name)
	if err == nil {
		return &exact, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	var rows []Record
	err = sqlx.SelectContext(ctx, q, &rows,
		`SELECT `+columns+` FROM building WHERE name LIKE ? ORDER BY id LIMIT 2`,
		"%"+name+"%")
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguous, name)
	}
}

// AllScrapeable returns every building eligible for a batch cycle: platform
// assigned and not in the skip set.  The caller passes the skip tags so this
// package stays ignorant of the scraper registry.
func AllScrapeable(ctx context.Context, q sqlx.QueryerContext, skip []string) ([]Record, error) {
	query := `SELECT ` + columns + ` FROM building WHERE platform <> ''`
	args := make([]any, 0, len(skip))
	if len(skip) > 0 {
		query += ` AND platform NOT IN (?` + strings.Repeat(",?", len(skip)-1) + `)`
		for _, tag := range skip {
			args = append(args, tag)
		}
	}
	query += ` ORDER BY id`

	var rows []Record
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// All returns every building, for the ops listener and availability push.
func All(ctx context.Context, q sqlx.QueryerContext) ([]Record, error) {
	var rows []Record
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT `+columns+` FROM building ORDER BY name`)
	return rows, err
}

// UpdateScrapeState writes the scrape-state columns in one statement.  Both
// branches of the runner's save helper go through here.
func UpdateScrapeState(ctx context.Context, e sqlx.ExecerContext, id int64,
	status string, at time.Time, zeroCount int) error {

	_, err := e.ExecContext(ctx,
		`UPDATE building
            SET last_scrape_status = ?, last_scraped_at = ?, consecutive_zero_count = ?
          WHERE id = ?`,
		status, at, zeroCount, id)
	return err
}

// Upsert inserts or refreshes one registry row keyed on url, preserving the
// scrape-state columns on update.  Portable select-then-write; the registry
// sync wraps the whole sweep in one transaction.
func Upsert(ctx context.Context, tx *sqlx.Tx, rec *Record) error {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM building WHERE url = ?`, rec.URL)
	switch err {
	case sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO building
			        (name, url, neighborhood, management_company, platform,
			         platform_key, platform_secret, last_scrape_status, consecutive_zero_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
			rec.Name, rec.URL, rec.Neighborhood, rec.ManagementCompany,
			rec.Platform, rec.PlatformKey, rec.PlatformSecret, StatusNever)
		return err
	case nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE building
	            SET name = ?, neighborhood = ?, management_company = ?,
	                platform = ?, platform_key = ?, platform_secret = ?
	          WHERE id = ?`,
			rec.Name, rec.Neighborhood, rec.ManagementCompany,
			rec.Platform, rec.PlatformKey, rec.PlatformSecret, id)
		return err
	default:
		return err
	}
}

// DeleteMissing retires buildings whose url is absent from the upstream
// registry.  Units and runs cascade with the row.  Returns rows removed.
func DeleteMissing(ctx context.Context, tx *sqlx.Tx, keepURLs []string) (int64, error) {
	if len(keepURLs) == 0 {
		// An empty upstream registry is a sync failure upstream, not a
		// request to drop every building.
		return 0, nil
	}
	query := `DELETE FROM building WHERE url NOT IN (?` + strings.Repeat(",?", len(keepURLs)-1) + `)`
	args := make([]any, len(keepURLs))
	for i, u := range keepURLs {
		args[i] = u
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
