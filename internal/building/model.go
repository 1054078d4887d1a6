package building

import (
	"database/sql"
)

// Scrape status values stored in `last_scrape_status`.
const (
	StatusNever          = "never"
	StatusSuccess        = "success"
	StatusFailed         = "failed"
	StatusNeedsAttention = "needs_attention"
)

// ZeroStreakLimit is the number of consecutive zero-unit successes after
// which a building is flagged `needs_attention`.
const ZeroStreakLimit = 5

// Record mirrors one row from the `building` table.  Rows are created and
// retired only by the spreadsheet registry sync, keyed on URL; scrapers never
// create buildings.
type Record struct {
	ID                   int64          `db:"id"`
	Name                 string         `db:"name"`
	URL                  string         `db:"url"`
	Neighborhood         sql.NullString `db:"neighborhood"`
	ManagementCompany    sql.NullString `db:"management_company"`
	Platform             string         `db:"platform"`
	PlatformKey          sql.NullString `db:"platform_key"`    // opaque, adapter-owned
	PlatformSecret       sql.NullString `db:"platform_secret"` // opaque, adapter-owned
	LastScrapeStatus     string         `db:"last_scrape_status"`
	LastScrapedAt        sql.NullTime   `db:"last_scraped_at"`
	ConsecutiveZeroCount int            `db:"consecutive_zero_count"`
}
