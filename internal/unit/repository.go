// Package unit holds data-access helpers for the `unit` table.  The table
// is current-state only: ReplaceForBuilding swaps a building's entire unit
// set inside the caller's transaction, which is the only write path.
package unit

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ByBuilding returns the building's current units in a stable order.
func ByBuilding(ctx context.Context, q sqlx.QueryerContext, buildingID int64) ([]Record, error) {
	var rows []Record
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT id, building_id, unit_number, bed_type, rent_cents,
	            availability_date, floor_plan_name, floor_plan_url, baths,
	            sqft, non_canonical, scrape_run_at
	       FROM unit
	      WHERE building_id = ?
	      ORDER BY unit_number`, buildingID)
	return rows, err
}

// ReplaceForBuilding deletes the building's unit set and inserts recs in
// order.  Must run inside a transaction so no reader ever sees a mixture of
// two scrape cycles.
func ReplaceForBuilding(ctx context.Context, e sqlx.ExecerContext, buildingID int64, recs []Record) error {
	if _, err := e.ExecContext(ctx,
		`DELETE FROM unit WHERE building_id = ?`, buildingID); err != nil {
		return err
	}

	const ins = `
	    INSERT INTO unit
	           (building_id, unit_number, bed_type, rent_cents, availability_date,
	            floor_plan_name, floor_plan_url, baths, sqft, non_canonical, scrape_run_at)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range recs {
		if _, err := e.ExecContext(ctx, ins,
			buildingID, r.UnitNumber, r.BedType, r.RentCents, r.AvailabilityDate,
			r.FloorPlanName, r.FloorPlanURL, r.Baths, r.Sqft, r.NonCanonical,
			r.ScrapeRunAt); err != nil {
			return err
		}
	}
	return nil
}
