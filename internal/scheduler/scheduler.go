// internal/scheduler/scheduler.go
//
// Daemon-mode trigger for the batch cycle.
//
// Context
// -------
// One cron entry, 02:00 America/Chicago daily, driving the orchestrator.
// robfig/cron owns the DST arithmetic; SkipIfStillRunning guarantees at
// most one cycle in flight, and Recover keeps a panicking cycle from
// taking the daemon down.  If the process comes up shortly after a fire
// it slept through (deploys land near 02:00 more often than chance would
// suggest), the missed cycle runs once immediately, provided the grace
// window has not lapsed.
//
// Run blocks until the context is cancelled, then waits for any in-flight
// cycle before returning.

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	// CronSpec fires the daily cycle at 02:00 local.
	CronSpec = "0 2 * * *"
	// Timezone pins "local" to the buildings being scraped, not the host.
	Timezone = "America/Chicago"
	// MissedFireGrace bounds how stale a missed fire may be and still run.
	MissedFireGrace = time.Hour
)

// Job is the work a fire triggers; the daemon passes the orchestrator's
// cycle closure.
type Job func(ctx context.Context)

// Scheduler wraps one cron entry plus the missed-fire policy.
type Scheduler struct {
	cron *cron.Cron
	sch  cron.Schedule
	loc  *time.Location
	job  Job
}

var timeNow = time.Now

// New builds a Scheduler for job.  Errors only on an unloadable timezone
// or unparseable spec, both of which are compile-time constants here.
func New(job Job) (*Scheduler, error) {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return nil, err
	}
	sch, err := cron.ParseStandard(CronSpec)
	if err != nil {
		return nil, err
	}

	lg := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(lg), cron.Recover(lg)),
	)
	return &Scheduler{cron: c, sch: sch, loc: loc, job: job}, nil
}

// Run starts the cron loop and blocks until ctx is cancelled.  The cancel
// propagates into a running cycle (workers stop picking up new buildings)
// and Run still waits for that cycle to wind down before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.AddFunc(CronSpec, func() { s.job(ctx) })

	next := s.sch.Next(timeNow().In(s.loc))
	zap.S().Infow("scheduler online",
		"spec", CronSpec, "tz", Timezone, "next_fire", next)

	if missed, at := s.missedFire(timeNow()); missed {
		zap.S().Infow("missed fire within grace window, running now", "fire_time", at)
		s.job(ctx)
	}

	s.cron.Start()
	<-ctx.Done()

	zap.S().Info("scheduler stopping, draining in-flight cycle")
	<-s.cron.Stop().Done()
	return ctx.Err()
}

// missedFire reports whether a scheduled fire instant fell inside the last
// MissedFireGrace, i.e. the process slept through it moments ago.
func (s *Scheduler) missedFire(now time.Time) (bool, time.Time) {
	now = now.In(s.loc)
	prev := s.sch.Next(now.Add(-MissedFireGrace))
	if !prev.After(now) {
		return true, prev
	}
	return false, time.Time{}
}

// cronLogger adapts the global zap logger to cron's logging contract.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	zap.S().Infow("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	zap.S().Errorw("cron: "+msg, append(kv, "err", err)...)
}
