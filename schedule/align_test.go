package schedule

import (
	"testing"
	"time"
)

func TestNextGridPointRoundsUp(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{monday(10, 7, 12), monday(10, 15, 0)},
		{monday(10, 14, 59), monday(10, 15, 0)},
		{monday(10, 0, 1), monday(10, 15, 0)},
	}
	for _, tc := range cases {
		if got := NextGridPoint(tc.now, 15); !got.Equal(tc.want) {
			t.Errorf("NextGridPoint(%s) = %s, want %s", tc.now, got, tc.want)
		}
	}
}

func TestNextGridPointExactBoundary(t *testing.T) {
	// Already on a grid point: the next one is a full interval later,
	// never a zero-length sleep.
	now := monday(10, 30, 0)
	want := monday(10, 45, 0)
	if got := NextGridPoint(now, 15); !got.Equal(want) {
		t.Errorf("NextGridPoint(%s) = %s, want %s", now, got, want)
	}
}

func TestNextGridPointHourRollover(t *testing.T) {
	now := monday(10, 52, 30)
	want := monday(11, 0, 0)
	if got := NextGridPoint(now, 15); !got.Equal(want) {
		t.Errorf("NextGridPoint(%s) = %s, want %s", now, got, want)
	}
}

func TestNextGridPointDayRollover(t *testing.T) {
	now := monday(23, 59, 1)
	want := monday(0, 0, 0).AddDate(0, 0, 1)
	if got := NextGridPoint(now, 15); !got.Equal(want) {
		t.Errorf("NextGridPoint(%s) = %s, want %s", now, got, want)
	}
}

func TestUntilNextGridPointAlwaysPositive(t *testing.T) {
	now := monday(10, 15, 0)
	if d := UntilNextGridPoint(now, 15); d != 15*time.Minute {
		t.Errorf("on-boundary delay = %s, want 15m", d)
	}
}

// Repeated alignment from a grid point must advance by exactly one interval
// each time: no drift, no double-fire.
func TestAlignmentDoesNotDrift(t *testing.T) {
	now := monday(9, 3, 47).Add(250 * time.Millisecond)
	point := NextGridPoint(now, 15)
	for i := 0; i < 96; i++ {
		next := NextGridPoint(point, 15)
		if got := next.Sub(point); got != 15*time.Minute {
			t.Fatalf("step %d: interval %s, want 15m", i, got)
		}
		if next.Second() != 0 || next.Minute()%15 != 0 {
			t.Fatalf("step %d: %s is not on the grid", i, next)
		}
		point = next
	}
}
