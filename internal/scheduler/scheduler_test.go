package scheduler

import (
	"context"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(func(context.Context) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestMissedFire(t *testing.T) {
	s := newTestScheduler(t)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"ten past two, fire just missed", chicago(t, 2025, 6, 15, 2, 10), true},
		{"two on the dot", chicago(t, 2025, 6, 15, 2, 0), true},
		{"four in the morning, grace lapsed", chicago(t, 2025, 6, 15, 4, 0), false},
		{"mid afternoon", chicago(t, 2025, 6, 15, 15, 30), false},
		{"just before the fire", chicago(t, 2025, 6, 15, 1, 55), false},
	}
	for _, c := range cases {
		got, at := s.missedFire(c.now)
		if got != c.want {
			t.Errorf("%s: missedFire = %v, want %v", c.name, got, c.want)
			continue
		}
		if got && at.Hour() != 2 {
			t.Errorf("%s: fire time %v is not the 02:00 fire", c.name, at)
		}
	}
}

// The daily fire stays at 02:00 wall clock across a DST transition.
func TestNextFireAcrossDST(t *testing.T) {
	s := newTestScheduler(t)

	// 2025-03-09 02:00 CST does not exist; the schedule must still land on
	// a sane instant and the following day must be back at 02:00.
	before := chicago(t, 2025, 3, 8, 12, 0)
	first := s.sch.Next(before)
	second := s.sch.Next(first)

	if second.Sub(first) > 25*time.Hour || second.Sub(first) < 22*time.Hour {
		t.Fatalf("fires %v and %v are not roughly daily", first, second)
	}
	if second.In(s.loc).Hour() != 2 {
		t.Fatalf("post-DST fire at %v, want 02:00 wall clock", second.In(s.loc))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	s, err := New(func(context.Context) { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func chicago(t *testing.T, y int, mo time.Month, d, h, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return time.Date(y, mo, d, h, min, 0, 0, loc)
}
