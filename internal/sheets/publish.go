// internal/sheets/publish.go
//
// Cycle output pushes: the status tab (one row per building per cycle) and
// the availability tab (every current unit).  Each push is a single bulk
// clear-and-write.

package sheets

import (
	"context"
	"time"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/runner"
	"github.com/yanizio/aptscrape/internal/unit"
)

var statusHeader = []interface{}{
	"building_id", "name", "platform", "status", "unit_count", "scraped_at", "error"}

var availabilityHeader = []interface{}{
	"building", "neighborhood", "unit", "bed_type", "rent", "available",
	"baths", "sqft", "floor_plan", "non_canonical", "scraped_at"}

// PublishStatus writes the cycle aggregate to the status tab.
func (c *Client) PublishStatus(ctx context.Context, results []runner.Result) error {
	rows := make([][]interface{}, 0, len(results)+1)
	rows = append(rows, statusHeader)
	for _, r := range results {
		rows = append(rows, statusRow(r))
	}
	return c.replaceTab(ctx, c.tabs.Status, rows)
}

func statusRow(r runner.Result) []interface{} {
	errMsg := ""
	if r.Err != nil {
		errMsg = r.Err.Error()
	}
	scrapedAt := ""
	if !r.ScrapedAt.IsZero() {
		scrapedAt = r.ScrapedAt.UTC().Format(time.RFC3339)
	}
	return []interface{}{
		r.BuildingID, r.Name, r.Platform, string(r.Outcome), r.UnitCount, scrapedAt, errMsg}
}

// PublishAvailability rewrites the availability tab from the current unit
// tables.
func (c *Client) PublishAvailability(ctx context.Context) error {
	blds, err := building.All(ctx, c.db)
	if err != nil {
		return err
	}

	rows := [][]interface{}{availabilityHeader}
	for _, b := range blds {
		units, err := unit.ByBuilding(ctx, c.db, b.ID)
		if err != nil {
			return err
		}
		for _, u := range units {
			rows = append(rows, availabilityRow(&b, &u))
		}
	}
	return c.replaceTab(ctx, c.tabs.Availability, rows)
}

// PublishBuildingUnits writes one building's units to the validation tab
// for eyeball review after a one-off scrape.
func (c *Client) PublishBuildingUnits(ctx context.Context, buildingID int64) error {
	b, err := building.ByID(ctx, c.db, buildingID)
	if err != nil {
		return err
	}
	units, err := unit.ByBuilding(ctx, c.db, buildingID)
	if err != nil {
		return err
	}

	rows := [][]interface{}{availabilityHeader}
	for _, u := range units {
		rows = append(rows, availabilityRow(b, &u))
	}
	return c.replaceTab(ctx, c.tabs.Validation, rows)
}

func availabilityRow(b *building.Record, u *unit.Record) []interface{} {
	return []interface{}{
		b.Name,
		b.Neighborhood.String,
		u.UnitNumber,
		u.BedType,
		float64(u.RentCents) / 100,
		u.AvailabilityDate,
		u.Baths.String,
		u.Sqft.Int64,
		u.FloorPlanName.String,
		u.NonCanonical,
		u.ScrapeRunAt.UTC().Format(time.RFC3339),
	}
}
