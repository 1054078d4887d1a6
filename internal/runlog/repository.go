// Package runlog holds data-access helpers for the append-only `scrape_run`
// audit table.
package runlog

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Insert appends one run record inside the caller's transaction.
func Insert(ctx context.Context, e sqlx.ExecerContext, rec *Record) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO scrape_run (building_id, run_at, status, unit_count, error_message)
	     VALUES (?, ?, ?, ?, ?)`,
		rec.BuildingID, rec.RunAt, rec.Status, rec.UnitCount, rec.ErrorMessage)
	return err
}

// RecentByBuilding returns the newest n runs for one building.
func RecentByBuilding(ctx context.Context, q sqlx.QueryerContext, buildingID int64, n int) ([]Record, error) {
	var rows []Record
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT id, building_id, run_at, status, unit_count, error_message
	       FROM scrape_run
	      WHERE building_id = ?
	      ORDER BY run_at DESC
	      LIMIT ?`, buildingID, n)
	return rows, err
}

// PruneOlderThan deletes runs with run_at before cutoff and reports how many
// went.  Called at the end of each batch cycle.
func PruneOlderThan(ctx context.Context, e sqlx.ExecerContext, cutoff time.Time) (int64, error) {
	res, err := e.ExecContext(ctx,
		`DELETE FROM scrape_run WHERE run_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
