// cmd/aptscrape/scrapeall.go
//
// The default command: one batch cycle, or the daemon when --schedule is
// set.  The daemon also serves the read-only ops listener and exits
// cleanly on SIGINT/SIGTERM, draining any in-flight cycle first.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/aptscrape/internal/api"
	"github.com/yanizio/aptscrape/internal/gate"
	"github.com/yanizio/aptscrape/internal/orchestrator"
	"github.com/yanizio/aptscrape/internal/runner"
	"github.com/yanizio/aptscrape/internal/scheduler"
)

func runScrapeAll(cmd *cobra.Command, _ []string) error {
	cfg, db, cleanup, err := boot(flagSchedule)
	if err != nil {
		return err
	}
	defer cleanup()

	r := runner.New(db, gate.New(), runner.Config{
		DryRun:         flagDryRun,
		ClearOnFailure: cfg.Scrape.ClearOnFailure,
	})
	orch := &orchestrator.Orchestrator{DB: db, Runner: r}
	if cli := sheetsClient(cmd, cfg, db); cli != nil {
		orch.Sync = cli
		orch.Pub = cli
	}
	opts := orchestrator.Options{SkipSync: flagSkipSync, DryRun: flagDryRun}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !flagSchedule {
		_, err := orch.RunCycle(ctx, opts)
		return err
	}

	// Daemon: cron-fired cycles plus the ops listener, both down on signal.
	sched, err := scheduler.New(func(jobCtx context.Context) {
		if _, err := orch.RunCycle(jobCtx, opts); err != nil {
			// The daemon stays up; the next fire retries.
			zap.S().Errorw("cycle failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return api.Serve(ctx, cfg.Ops.ListenAddr, db) })
	g.Go(func() error {
		if err := sched.Run(ctx); err != context.Canceled {
			return err
		}
		return nil
	})
	return g.Wait()
}
