// Package progression derives level and XP progress from a user's total
// experience. Every page reads levels through this package; nothing else
// in the repo knows the curve.
package progression

import "math"

// XPPerLevelStep is the cost increase per level: leaving level N costs
// XPPerLevelStep*N experience.
const XPPerLevelStep = 100

type Level struct {
	Level     int `json:"level"`
	XPInLevel int `json:"xp_in_level"`
	XPForNext int `json:"xp_for_next"`
	Percent   int `json:"percent"`
}

// ThresholdFor returns the total experience at which level n starts.
// Levels whose threshold does not fit in an int report math.MaxInt.
func ThresholdFor(n int) int {
	t, ok := threshold(n)
	if !ok {
		return math.MaxInt
	}
	return t
}

// threshold is ThresholdFor with overflow reported instead of saturated.
func threshold(n int) (int, bool) {
	if n <= 1 {
		return 0, true
	}
	a, b := n, n-1
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	half := a * b
	if half > math.MaxInt/XPPerLevelStep {
		return 0, false
	}
	return half * XPPerLevelStep, true
}

// FromTotalXP maps total experience to a Level. Negative totals are
// treated as zero.
func FromTotalXP(total int) Level {
	if total < 0 {
		total = 0
	}

	// Closed-form estimate of the largest n with ThresholdFor(n) <= total,
	// corrected for float rounding.
	n := int((1 + math.Sqrt(1+8*float64(total)/XPPerLevelStep)) / 2)
	if n < 1 {
		n = 1
	}
	for n > 1 {
		if t, ok := threshold(n); ok && t <= total {
			break
		}
		n--
	}
	for {
		next, ok := threshold(n + 1)
		if !ok || next > total {
			break
		}
		n++
	}

	start, _ := threshold(n)
	in := total - start
	need := XPPerLevelStep * n
	pct := in * 100 / need
	if pct > 100 {
		pct = 100
	}

	return Level{
		Level:     n,
		XPInLevel: in,
		XPForNext: need,
		Percent:   pct,
	}
}
