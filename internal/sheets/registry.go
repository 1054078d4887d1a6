// internal/sheets/registry.go
//
// Registry pull: the Buildings tab is the source of truth for what gets
// scraped.  Each sync upserts every sheet row keyed on url and retires DB
// rows the sheet no longer lists (units and run history cascade).  The
// whole sweep is one transaction, so a half-read sheet never half-updates
// the registry.

package sheets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/aptscrape/internal/building"
)

// registrySpan covers the columns the sheet carries, below the header row:
// name, url, neighborhood, management company, platform, key, secret.
const registrySpan = "A2:G"

// SyncRegistry refreshes the building table from the registry tab.
func (c *Client) SyncRegistry(ctx context.Context) error {
	rows, err := c.readTab(ctx, c.tabs.Registry, registrySpan)
	if err != nil {
		return err
	}

	var (
		keep    []string
		records []building.Record
	)
	for i, row := range rows {
		rec, err := parseRegistryRow(row)
		if err != nil {
			zap.S().Warnw("registry row skipped",
				"tab", c.tabs.Registry, "row", i+2, "err", err)
			continue
		}
		records = append(records, *rec)
		keep = append(keep, rec.URL)
	}
	if len(records) == 0 {
		return fmt.Errorf("sheets: registry tab %q yielded no usable rows", c.tabs.Registry)
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sheets: begin registry sync: %w", err)
	}
	for i := range records {
		if err := building.Upsert(ctx, tx, &records[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("sheets: upsert %s: %w", records[i].URL, err)
		}
	}
	removed, err := building.DeleteMissing(ctx, tx, keep)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sheets: retire missing buildings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sheets: commit registry sync: %w", err)
	}

	zap.S().Infow("registry synced",
		"buildings", len(records), "retired", removed)
	return nil
}

// parseRegistryRow maps one sheet row onto a building record.  Name and url
// are mandatory; everything else may be blank.
func parseRegistryRow(row []interface{}) (*building.Record, error) {
	name := cell(row, 0)
	url := cell(row, 1)
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if url == "" {
		return nil, fmt.Errorf("missing url")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("url %q is not absolute", url)
	}

	rec := &building.Record{
		Name:              name,
		URL:               url,
		Neighborhood:      nullable(cell(row, 2)),
		ManagementCompany: nullable(cell(row, 3)),
		Platform:          strings.ToLower(cell(row, 4)),
		PlatformKey:       nullable(cell(row, 5)),
		PlatformSecret:    nullable(cell(row, 6)),
	}
	return rec, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
