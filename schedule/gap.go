package schedule

import (
	"time"
)

// DefaultGapThreshold is how long the sampler may be silent before the gap
// is worth a warning at startup.
const DefaultGapThreshold = time.Hour

// GapWarning reports an abnormal silence between the last recorded sample
// and now, usually because the host slept or the process crashed.
type GapWarning struct {
	HoursMissed float64
	LastSeen    time.Time
}

// CheckGap compares the last recorded sample time against now. It returns
// nil when there is no prior sample or the gap is within threshold. The
// warning is informational only; scheduling resumes at the next grid point
// regardless.
func CheckGap(lastSeen *time.Time, now time.Time, threshold time.Duration) *GapWarning {
	if lastSeen == nil {
		return nil
	}
	elapsed := now.Sub(*lastSeen)
	if elapsed <= threshold {
		return nil
	}
	return &GapWarning{
		HoursMissed: elapsed.Hours(),
		LastSeen:    *lastSeen,
	}
}
