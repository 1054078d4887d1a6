package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/aptscrape/internal/runner"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func scrapeableRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "url", "neighborhood",
		"management_company", "platform", "platform_key", "platform_secret",
		"last_scrape_status", "last_scraped_at", "consecutive_zero_count"})
	for _, id := range ids {
		rows.AddRow(id, "b", "https://example.com", nil, nil, "sightmap",
			nil, nil, "never", nil, 0)
	}
	return rows
}

// fakeRunner flips outcome by building id parity and counts invocations.
type fakeRunner struct {
	calls int64
	delay time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, id int64, _ string) runner.Result {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if id%2 == 0 {
		return runner.Result{BuildingID: id, Outcome: runner.OutcomeFailed, Err: errors.New("boom")}
	}
	return runner.Result{BuildingID: id, Outcome: runner.OutcomeSuccess, UnitCount: 2}
}

type fakePub struct {
	statusResults int
	availCalls    int
	err           error
}

func (p *fakePub) PublishStatus(_ context.Context, rs []runner.Result) error {
	p.statusResults = len(rs)
	return p.err
}
func (p *fakePub) PublishAvailability(context.Context) error {
	p.availCalls++
	return p.err
}

type fakeSync struct {
	calls int
	err   error
}

func (s *fakeSync) SyncRegistry(context.Context) error { s.calls++; return s.err }

func TestRunCycleAggregates(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnRows(scrapeableRows(1, 2, 3, 4, 5))
	mock.ExpectExec(`DELETE FROM scrape_run WHERE run_at <`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	fr := &fakeRunner{}
	pub := &fakePub{}
	sync := &fakeSync{}
	o := &Orchestrator{DB: db, Runner: fr, Sync: sync, Pub: pub}

	sum, err := o.RunCycle(context.Background(), Options{})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if sync.calls != 1 {
		t.Fatalf("registry sync calls = %d, want 1", sync.calls)
	}
	if got := atomic.LoadInt64(&fr.calls); got != 5 {
		t.Fatalf("runner calls = %d, want 5", got)
	}
	if sum.Succeeded != 3 || sum.Failed != 2 || sum.Skipped != 0 {
		t.Fatalf("aggregate = %d/%d/%d, want 3/2/0", sum.Succeeded, sum.Failed, sum.Skipped)
	}
	if pub.statusResults != 5 || pub.availCalls != 1 {
		t.Fatalf("publishes = %d results, %d avail calls", pub.statusResults, pub.availCalls)
	}
	if sum.Pruned != 7 {
		t.Fatalf("pruned = %d, want 7", sum.Pruned)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRunCycleSyncFailureDoesNotAbort(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnRows(scrapeableRows(1))
	mock.ExpectExec(`DELETE FROM scrape_run`).WillReturnResult(sqlmock.NewResult(0, 0))

	o := &Orchestrator{DB: db, Runner: &fakeRunner{}, Sync: &fakeSync{err: errors.New("sheet 503")}, Pub: &fakePub{}}
	sum, err := o.RunCycle(context.Background(), Options{})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if sum.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", sum.Succeeded)
	}
}

func TestRunCyclePublishFailureDoesNotAbort(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnRows(scrapeableRows(1))
	mock.ExpectExec(`DELETE FROM scrape_run`).WillReturnResult(sqlmock.NewResult(0, 0))

	o := &Orchestrator{DB: db, Runner: &fakeRunner{}, Pub: &fakePub{err: errors.New("quota")}}
	if _, err := o.RunCycle(context.Background(), Options{}); err != nil {
		t.Fatalf("publish failure must not propagate: %v", err)
	}
}

func TestRunCycleDryRunSkipsSideEffects(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnRows(scrapeableRows(1, 3))

	pub := &fakePub{}
	sync := &fakeSync{}
	o := &Orchestrator{DB: db, Runner: &fakeRunner{}, Sync: sync, Pub: pub}

	sum, err := o.RunCycle(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if sync.calls != 0 || pub.statusResults != 0 || pub.availCalls != 0 {
		t.Fatal("dry run must skip sync and publishes")
	}
	if sum.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2", sum.Succeeded)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("dry run pruned or synced: %v", err)
	}
}

func TestRunCycleEnumerationErrorIsFatal(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnError(errors.New("db locked"))

	o := &Orchestrator{DB: db, Runner: &fakeRunner{}}
	if _, err := o.RunCycle(context.Background(), Options{}); err == nil {
		t.Fatal("enumeration failure must abort the cycle")
	}
}

func TestRunCycleCancellationStopsNewWork(t *testing.T) {
	db, mock := newMock(t)
	ids := make([]int64, 24)
	for i := range ids {
		ids[i] = int64(2*i + 1)
	}
	mock.ExpectQuery(`FROM building WHERE platform`).WillReturnRows(scrapeableRows(ids...))

	ctx, cancel := context.WithCancel(context.Background())
	fr := &fakeRunner{delay: 25 * time.Millisecond}
	o := &Orchestrator{DB: db, Runner: fr}

	go func() {
		time.Sleep(40 * time.Millisecond)
		cancel()
	}()
	sum, err := o.RunCycle(ctx, Options{DryRun: true})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if got := atomic.LoadInt64(&fr.calls); got >= 24 {
		t.Fatalf("cancellation did not stop new work: %d runs", got)
	}
	if calls := atomic.LoadInt64(&fr.calls); len(sum.Results) != int(calls) {
		t.Fatalf("results = %d, runs = %d", len(sum.Results), calls)
	}
}
