package analysis

import (
	"math"

	"runway-agent/internal/forecast"
)

// FullHealthMonths is the runway at which the survival score saturates at 1.
const FullHealthMonths = 36

// RunwayAndScore finds the first month whose presented ending balance is
// negative. A ledger that never goes negative has a runway of its full length.
func RunwayAndScore(ledger []forecast.Row) (runwayMonths int, survivalScore float64) {
	runwayMonths = len(ledger)
	for i, r := range ledger {
		if r.EndingCash < 0 {
			runwayMonths = i
			break
		}
	}
	return runwayMonths, SurvivalScore(runwayMonths)
}

// SurvivalScore maps a runway to [0, 1], rounded to two decimals.
func SurvivalScore(runwayMonths int) float64 {
	if runwayMonths <= 0 {
		return 0
	}
	s := math.Min(float64(runwayMonths)/FullHealthMonths, 1.0)
	return math.Round(s*100) / 100
}
