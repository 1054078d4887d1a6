package unit

import (
	"database/sql"
	"time"
)

// Record mirrors one row from the `unit` table.  The full set of rows for a
// building is replaced atomically on every successful scrape; there is no
// per-unit history.
type Record struct {
	ID               int64          `db:"id"`
	BuildingID       int64          `db:"building_id"`
	UnitNumber       string         `db:"unit_number"`
	BedType          string         `db:"bed_type"`
	RentCents        int64          `db:"rent_cents"`
	AvailabilityDate string         `db:"availability_date"` // ISO YYYY-MM-DD
	FloorPlanName    sql.NullString `db:"floor_plan_name"`
	FloorPlanURL     sql.NullString `db:"floor_plan_url"`
	Baths            sql.NullString `db:"baths"`
	Sqft             sql.NullInt64  `db:"sqft"`
	NonCanonical     bool           `db:"non_canonical"`
	ScrapeRunAt      time.Time      `db:"scrape_run_at"`
}
