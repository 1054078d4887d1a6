// internal/orchestrator/orchestrator.go
//
// One full batch cycle, start to finish.
//
// Context
// -------
// RunCycle is the callable behind both `scrape-all` and the daemon's cron
// job.  It refreshes the building registry from the sheet, snapshots the
// scrapeable buildings, fans them out to a fixed worker pool, aggregates
// per-building results, publishes the status and availability tabs, and
// prunes aged run history.  Collaborator failures (sheet pushes, registry
// sync) are logged and swallowed; only an unusable cycle (DB gone, cannot
// enumerate) returns an error.
//
// Cancellation lets in-flight scrapes finish their transaction; queued
// buildings are abandoned and the cycle returns what completed.

package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/metrics"
	"github.com/yanizio/aptscrape/internal/runlog"
	"github.com/yanizio/aptscrape/internal/runner"
	"github.com/yanizio/aptscrape/internal/scraper"
)

// Workers is the fan-out width.  Platform semaphores, not pool size, bound
// per-site pressure; the pool just caps total in-flight scrapes.
const Workers = 8

// BuildingRunner is what the pool drives; satisfied by *runner.Runner.
type BuildingRunner interface {
	Run(ctx context.Context, buildingID int64, platformOverride string) runner.Result
}

// RegistrySyncer refreshes the building table from the upstream sheet.
type RegistrySyncer interface {
	SyncRegistry(ctx context.Context) error
}

// Publisher pushes cycle output back to the sheet for human review.
type Publisher interface {
	PublishStatus(ctx context.Context, results []runner.Result) error
	PublishAvailability(ctx context.Context) error
}

// Options are the per-cycle switches from the CLI.
type Options struct {
	SkipSync bool
	DryRun   bool
}

// Summary aggregates one cycle.
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []runner.Result
	Succeeded  int
	Failed     int
	Skipped    int
	Pruned     int64
}

// Orchestrator wires the cycle's moving parts.  Sync and Pub may be nil
// (dry runs, tests); the cycle degrades to scrape-and-aggregate.
type Orchestrator struct {
	DB     *sqlx.DB
	Runner BuildingRunner
	Sync   RegistrySyncer
	Pub    Publisher
}

var timeNow = time.Now

// RunCycle executes one complete batch cycle and returns its aggregate.
func (o *Orchestrator) RunCycle(ctx context.Context, opts Options) (*Summary, error) {
	sum := &Summary{StartedAt: timeNow().UTC()}
	defer func() {
		sum.FinishedAt = timeNow().UTC()
		metrics.CycleDurationSeconds.Observe(sum.FinishedAt.Sub(sum.StartedAt).Seconds())
	}()

	// 1. Registry refresh.  Best effort: a stale registry still scrapes.
	if !opts.SkipSync && !opts.DryRun && o.Sync != nil {
		if err := o.Sync.SyncRegistry(ctx); err != nil {
			zap.S().Errorw("registry sync failed, scraping stale registry", "err", err)
		}
	}

	// 2. Snapshot the batch.  Late edits to the building table do not
	// change this cycle.
	targets, err := building.AllScrapeable(ctx, o.DB, scraper.SkipTags())
	if err != nil {
		return nil, fmt.Errorf("enumerate buildings: %w", err)
	}
	zap.S().Infow("cycle start", "buildings", len(targets), "dry_run", opts.DryRun)

	// 3. Fan out.
	sum.Results = o.fanOut(ctx, targets)

	// 4. Aggregate.
	for _, r := range sum.Results {
		switch r.Outcome {
		case runner.OutcomeSuccess:
			sum.Succeeded++
		case runner.OutcomeFailed:
			sum.Failed++
		default:
			sum.Skipped++
		}
	}

	if !opts.DryRun {
		// 5 + 6. Sheet pushes are monitoring, not the critical path.
		if o.Pub != nil {
			if err := o.Pub.PublishStatus(ctx, sum.Results); err != nil {
				zap.S().Errorw("status publish failed", "err", err)
			}
			if err := o.Pub.PublishAvailability(ctx); err != nil {
				zap.S().Errorw("availability publish failed", "err", err)
			}
		}

		// 7. Retention prune.
		cutoff := timeNow().UTC().AddDate(0, 0, -runlog.RetentionDays)
		if n, err := runlog.PruneOlderThan(ctx, o.DB, cutoff); err != nil {
			zap.S().Errorw("run history prune failed", "err", err)
		} else {
			sum.Pruned = n
		}
	}

	zap.S().Infow("cycle complete",
		"succeeded", sum.Succeeded, "failed", sum.Failed, "skipped", sum.Skipped,
		"pruned", sum.Pruned, "elapsed", timeNow().UTC().Sub(sum.StartedAt).Round(time.Second))
	return sum, nil
}

// fanOut drives the worker pool.  One building's failure never touches its
// siblings; cancellation stops new submissions and drains in-flight work.
func (o *Orchestrator) fanOut(ctx context.Context, targets []building.Record) []runner.Result {
	jobs := make(chan building.Record)
	results := make(chan runner.Result, len(targets))

	var g errgroup.Group
	for i := 0; i < Workers; i++ {
		g.Go(func() error {
			for b := range jobs {
				if ctx.Err() != nil {
					// Cycle cancelled: abandon queued work, no writes.
					continue
				}
				results <- o.Runner.Run(ctx, b.ID, "")
			}
			return nil
		})
	}

feed:
	for _, b := range targets {
		select {
		case jobs <- b:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	g.Wait()
	close(results)

	out := make([]runner.Result, 0, len(targets))
	for r := range results {
		out = append(out, r)
	}
	return out
}
