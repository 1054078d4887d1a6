// internal/runner/runner.go
//
// Per-building scrape execution, the unit of isolation.
//
// Context
// -------
// Run owns everything that happens for one building: a fresh DB session,
// adapter resolution, the platform concurrency permit, normalization, and
// the atomic commit.  Errors never escape; every exit path folds into a
// Result.  The batch orchestrator and the one-off CLI both call Run, and
// both land in the same saveScrapeResult helper, so the two entry points
// cannot drift.
//
// The permit is held from before the adapter call until after the commit,
// so per-platform caps bound the whole work unit, then a platform-dependent
// courtesy pause runs after release.

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/gate"
	"github.com/yanizio/aptscrape/internal/metrics"
	"github.com/yanizio/aptscrape/internal/normalize"
	"github.com/yanizio/aptscrape/internal/scraper"
	"github.com/yanizio/aptscrape/internal/unit"
)

// Outcome of one Run call.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Result is the per-building record the orchestrator aggregates.
type Result struct {
	BuildingID int64
	Name       string
	Platform   string
	Outcome    Outcome
	UnitCount  int
	ScrapedAt  time.Time
	Err        error
}

// Config carries the runner switches.
type Config struct {
	// DryRun scrapes and normalizes but skips the DB transaction.
	DryRun bool
	// ClearOnFailure drops a building's units when its scrape fails,
	// instead of retaining the last known data.  Off by default; flipping
	// it is an explicit operator decision, never implied.
	ClearOnFailure bool
}

// Runner executes scrapes against one DB pool and one concurrency gate.
type Runner struct {
	db   *sqlx.DB
	gate *gate.Gate
	cfg  Config
}

// timeNow and paceFor are swapped by tests.
var (
	timeNow = time.Now
	paceFor = gate.Pace
)

func New(db *sqlx.DB, g *gate.Gate, cfg Config) *Runner {
	return &Runner{db: db, gate: g, cfg: cfg}
}

// Run scrapes one building by id.  platformOverride, when non-empty,
// replaces the stored tag for this invocation only (CLI --platform).
// Run never panics and never returns an error; failures are Results.
func (r *Runner) Run(ctx context.Context, buildingID int64, platformOverride string) Result {
	res := Result{BuildingID: buildingID, Outcome: OutcomeSkipped}
	defer func() { metrics.ScrapesTotal.WithLabelValues(string(res.Outcome)).Inc() }()

	// Fresh session per invocation; released on every exit path.
	sess, err := r.db.Connx(ctx)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("open session: %w", err)
		return res
	}
	defer sess.Close()

	b, err := building.ByID(ctx, sess, buildingID)
	if errors.Is(err, building.ErrNotFound) {
		zap.S().Warnw("scrape skipped, building vanished", "building_id", buildingID)
		return res
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("load building: %w", err)
		return res
	}
	res.Name = b.Name

	tag := b.Platform
	if platformOverride != "" {
		tag = platformOverride
	}
	res.Platform = tag

	if scraper.Skippable(tag) {
		zap.S().Infow("scrape skipped", "building", b.Name, "platform", tag)
		return res
	}

	adapter, resolveErr := scraper.Resolve(tag)
	if resolveErr != nil {
		// Unknown platform is a failure, not a panic: record it like any
		// other dead scrape so the sheet surfaces it.
		return r.finish(ctx, sess, b, tag, nil, resolveErr)
	}

	waitStart := timeNow()
	if err := r.gate.Acquire(ctx, tag); err != nil {
		// Cancelled before any write; leave no trace.
		res.Err = err
		return res
	}
	metrics.GateWaitSeconds.Observe(timeNow().Sub(waitStart).Seconds())

	raws, scrapeErr := invoke(ctx, adapter, scraper.Target{
		BuildingID: b.ID,
		Name:       b.Name,
		URL:        b.URL,
		Key:        b.PlatformKey.String,
		Secret:     b.PlatformSecret.String,
	})

	var units []unit.Record
	if scrapeErr == nil {
		units = r.normalizeAll(b, raws)
	}

	res = r.finish(ctx, sess, b, tag, units, scrapeErr)

	r.gate.Release(tag)
	pace(ctx, paceFor(tag))
	return res
}

// finish routes both branches into the single save helper and emits the
// one-line-per-building log entry.
func (r *Runner) finish(ctx context.Context, sess *sqlx.Conn, b *building.Record,
	tag string, units []unit.Record, scrapeErr error) Result {

	res := r.saveScrapeResult(ctx, sess, b, scrapeErr == nil, units, scrapeErr)
	res.Platform = tag

	switch res.Outcome {
	case OutcomeSuccess:
		zap.S().Infow("scrape succeeded",
			"building", b.Name, "platform", tag, "units", res.UnitCount)
	default:
		zap.S().Warnw("scrape failed",
			"building", b.Name, "platform", tag, "err", res.Err)
	}
	return res
}

// invoke shields the runner from a misbehaving adapter: a panic inside
// Scrape becomes an ordinary scrape error.
func invoke(ctx context.Context, a scraper.Adapter, t scraper.Target) (raws []scraper.Raw, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("adapter panic: %v", p)
		}
	}()
	return a.Scrape(ctx, t)
}

// normalizeAll runs every raw record through the normalizer.  Rejects are
// dropped one at a time; they never sink the scrape.
func (r *Runner) normalizeAll(b *building.Record, raws []scraper.Raw) []unit.Record {
	units := make([]unit.Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := normalize.Unit(b.ID, raw)
		if err != nil {
			metrics.RecordsRejectedTotal.Inc()
			zap.S().Warnw("record rejected",
				"building", b.Name, "unit_number", raw["unit_number"], "err", err)
			continue
		}
		units = append(units, rec)
	}
	return units
}

// pace sleeps the courtesy interval, bailing early on cancellation.
func pace(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
