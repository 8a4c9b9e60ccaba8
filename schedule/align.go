package schedule

import (
	"time"
)

// NextGridPoint returns the next wall-clock instant that is an exact
// gridMinutes multiple of the hour (15 -> :00/:15/:30/:45). If now is
// already exactly on a grid point the result is one full interval later, so
// a loop sleeping until the returned instant can never double-fire.
func NextGridPoint(now time.Time, gridMinutes int) time.Time {
	rem := gridMinutes - now.Minute()%gridMinutes
	base := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	return base.Add(time.Duration(rem) * time.Minute)
}

// UntilNextGridPoint returns the delay from now to the next grid point.
// The result is always positive: sub-minute precision is included so
// repeated sleeps land back on the boundary instead of drifting later
// each cycle.
func UntilNextGridPoint(now time.Time, gridMinutes int) time.Duration {
	return NextGridPoint(now, gridMinutes).Sub(now)
}
