package runner

import (
	"testing"

	"github.com/yanizio/aptscrape/internal/building"
)

func TestNextOnSuccess(t *testing.T) {
	cases := []struct {
		zeroCount  int
		unitCount  int
		wantStatus string
		wantZero   int
	}{
		{0, 3, building.StatusSuccess, 0},
		{4, 1, building.StatusSuccess, 0}, // any non-zero success resets
		{7, 2, building.StatusSuccess, 0},
		{0, 0, building.StatusSuccess, 1},
		{3, 0, building.StatusSuccess, 4},
		{4, 0, building.StatusNeedsAttention, 5},
		{5, 0, building.StatusNeedsAttention, 6}, // sticky past the limit
	}
	for _, c := range cases {
		status, zero := nextOnSuccess(c.zeroCount, c.unitCount)
		if status != c.wantStatus || zero != c.wantZero {
			t.Errorf("nextOnSuccess(%d, %d) = (%s, %d), want (%s, %d)",
				c.zeroCount, c.unitCount, status, zero, c.wantStatus, c.wantZero)
		}
	}
}

func TestNextOnFailure(t *testing.T) {
	for _, zero := range []int{0, 3, 5} {
		status, got := nextOnFailure(zero)
		if status != building.StatusFailed || got != zero {
			t.Errorf("nextOnFailure(%d) = (%s, %d), want (failed, %d)", zero, status, got, zero)
		}
	}
}

// A zero-unit success counts consecutively and any non-zero success resets:
// walk the exact sequence from the escalation scenario.
func TestZeroStreakWalk(t *testing.T) {
	zero := 0
	status := building.StatusSuccess
	for i := 1; i <= 4; i++ {
		status, zero = nextOnSuccess(zero, 0)
		if status != building.StatusSuccess || zero != i {
			t.Fatalf("step %d: (%s, %d)", i, status, zero)
		}
	}
	status, zero = nextOnSuccess(zero, 0)
	if status != building.StatusNeedsAttention || zero != 5 {
		t.Fatalf("fifth zero: (%s, %d), want (needs_attention, 5)", status, zero)
	}
	status, zero = nextOnSuccess(zero, 1)
	if status != building.StatusSuccess || zero != 0 {
		t.Fatalf("recovery: (%s, %d), want (success, 0)", status, zero)
	}
}
