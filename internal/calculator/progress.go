package calculator

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Progress is the derived state of a subscription period at a point in time.
type Progress struct {
	// Ratio is the elapsed share of the period, clamped to [0, 1].
	Ratio float64

	// DaysRemaining is the number of started days left, never negative.
	DaysRemaining int
}

// Percent returns Ratio as a whole percentage for progress bars.
func (p Progress) Percent() int {
	return int(math.Round(p.Ratio * 100))
}

// ComputeProgress computes how far 'now' is into the period [start, end].
// Based on: ratio = (now - start) / (end - start), clamped to [0, 1],
// days_remaining = ceil((end - now) / 24h), floored at 0.
//
// A period with end <= start is treated as fully elapsed.
func ComputeProgress(start, end, now time.Time) Progress {
	return Progress{
		Ratio:         elapsedRatio(start, end, now),
		DaysRemaining: DaysRemaining(end, now),
	}
}

func elapsedRatio(start, end, now time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	if !now.After(start) {
		return 0
	}
	if !now.Before(end) {
		return 1
	}
	ratio := float64(now.Sub(start)) / float64(total)
	return math.Min(1, math.Max(0, ratio))
}

// DaysRemaining returns ceil((end - now) in days), floored at 0.
func DaysRemaining(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	days := left / day
	if left%day != 0 {
		days++
	}
	return int(days)
}
