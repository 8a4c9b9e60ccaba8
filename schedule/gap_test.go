package schedule

import (
	"math"
	"testing"
	"time"
)

func TestCheckGapNoPriorSample(t *testing.T) {
	if w := CheckGap(nil, monday(12, 0, 0), time.Hour); w != nil {
		t.Fatalf("expected no warning, got %+v", w)
	}
}

func TestCheckGapUnderThreshold(t *testing.T) {
	now := monday(12, 0, 0)
	last := now.Add(-10 * time.Minute)
	if w := CheckGap(&last, now, time.Hour); w != nil {
		t.Fatalf("expected no warning for 10m gap, got %+v", w)
	}
}

func TestCheckGapOverThreshold(t *testing.T) {
	now := monday(12, 0, 0)
	last := now.Add(-2 * time.Hour)
	w := CheckGap(&last, now, time.Hour)
	if w == nil {
		t.Fatal("expected a warning for 2h gap")
	}
	if math.Abs(w.HoursMissed-2.0) > 0.01 {
		t.Errorf("HoursMissed = %f, want ~2.0", w.HoursMissed)
	}
	if !w.LastSeen.Equal(last) {
		t.Errorf("LastSeen = %s, want %s", w.LastSeen, last)
	}
}

func TestCheckGapExactlyAtThreshold(t *testing.T) {
	now := monday(12, 0, 0)
	last := now.Add(-time.Hour)
	if w := CheckGap(&last, now, time.Hour); w != nil {
		t.Fatalf("a gap equal to the threshold is not abnormal, got %+v", w)
	}
}
