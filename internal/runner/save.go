// internal/runner/save.go
//
// The single write path for scrape outcomes.
//
// Every scrape, from either entry point, commits through saveScrapeResult
// with one succeeded switch.  An earlier layout had the batch path and the
// CLI path writing separately and they drifted; keep it one function.
//
// Success: replace the unit set, advance the state machine, append a run
// row — one transaction.  Failure: retain the units (last known data),
// mark the building failed, append a run row with the truncated error.

package runner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/metrics"
	"github.com/yanizio/aptscrape/internal/runlog"
	"github.com/yanizio/aptscrape/internal/unit"
)

// errMessageLimit caps the stored error string.
const errMessageLimit = 500

func (r *Runner) saveScrapeResult(ctx context.Context, sess *sqlx.Conn,
	b *building.Record, succeeded bool, units []unit.Record, scrapeErr error) Result {

	now := timeNow().UTC()
	res := Result{
		BuildingID: b.ID,
		Name:       b.Name,
		Platform:   b.Platform,
		ScrapedAt:  now,
	}
	if succeeded {
		res.Outcome = OutcomeSuccess
		res.UnitCount = len(units)
	} else {
		res.Outcome = OutcomeFailed
		res.Err = scrapeErr
	}

	if r.cfg.DryRun {
		// Simulated result only; the transaction below never starts.
		return res
	}

	tx, err := sess.BeginTxx(ctx, nil)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("begin: %w", err)
		return res
	}

	status, err := writeOutcome(ctx, tx, b, succeeded, units, scrapeErr, r.cfg.ClearOnFailure, now)
	if err != nil {
		tx.Rollback()
		res.Outcome = OutcomeFailed
		res.UnitCount = 0
		res.Err = fmt.Errorf("persist scrape result: %w", err)
		return res
	}
	if err := tx.Commit(); err != nil {
		res.Outcome = OutcomeFailed
		res.UnitCount = 0
		res.Err = fmt.Errorf("commit: %w", err)
		return res
	}

	if succeeded {
		metrics.UnitsReplacedTotal.Add(float64(len(units)))
	}
	trackAttention(b.LastScrapeStatus, status)
	return res
}

// trackAttention keeps the needs_attention gauge in step with status
// transitions.
func trackAttention(prev, next string) {
	switch {
	case prev != building.StatusNeedsAttention && next == building.StatusNeedsAttention:
		metrics.BuildingsNeedingAttention.Inc()
	case prev == building.StatusNeedsAttention && next != building.StatusNeedsAttention:
		metrics.BuildingsNeedingAttention.Dec()
	}
}

// writeOutcome holds the statement sequence shared by both branches and
// reports the status the building landed in.
func writeOutcome(ctx context.Context, tx *sqlx.Tx, b *building.Record,
	succeeded bool, units []unit.Record, scrapeErr error,
	clearOnFailure bool, now time.Time) (string, error) {

	var status string
	var zero int
	run := runlog.Record{BuildingID: b.ID, RunAt: now}

	if succeeded {
		if err := unit.ReplaceForBuilding(ctx, tx, b.ID, units); err != nil {
			return "", err
		}
		status, zero = nextOnSuccess(b.ConsecutiveZeroCount, len(units))
		run.Status = runlog.StatusSuccess
		run.UnitCount = len(units)
	} else {
		if clearOnFailure {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM unit WHERE building_id = ?`, b.ID); err != nil {
				return "", err
			}
		}
		status, zero = nextOnFailure(b.ConsecutiveZeroCount)
		run.Status = runlog.StatusFailed
		run.ErrorMessage = sql.NullString{String: truncate(scrapeErr.Error(), errMessageLimit), Valid: true}
	}

	if err := building.UpdateScrapeState(ctx, tx, b.ID, status, now, zero); err != nil {
		return "", err
	}
	return status, runlog.Insert(ctx, tx, &run)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
