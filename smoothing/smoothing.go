// Package smoothing damps station-to-station noise in temperature readings
// using a short history of recorded values.
package smoothing

import (
	"math"
)

const (
	// HistorySize is how many recent temperatures feed the blend.
	HistorySize = 3
	// currentWeight/recentWeight blend the new reading against the
	// recent average.
	currentWeight = 0.7
	recentWeight  = 0.3
	// bypassDeltaF disables smoothing when the reading jumps this far
	// from the most recent value: a swing that size is weather, not noise.
	bypassDeltaF = 10.0
)

// Smooth blends current against the recent history (newest first, up to
// HistorySize values). With no history the reading passes through
// unchanged, and a jump larger than bypassDeltaF from the newest recorded
// value bypasses the blend entirely.
func Smooth(current float64, recent []float64) float64 {
	if len(recent) == 0 {
		return current
	}
	if math.Abs(current-recent[0]) > bypassDeltaF {
		return current
	}
	var sum float64
	for _, v := range recent {
		sum += v
	}
	avg := sum / float64(len(recent))
	return currentWeight*current + recentWeight*avg
}
