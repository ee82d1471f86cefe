package analysis

import (
	"math"

	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
)

// Assessment is the scored summary of one forecast.
type Assessment struct {
	RunwayMonths  int           `json:"runway_months"`
	SurvivalScore float64       `json:"survival_score"`
	Urgency       model.Urgency `json:"urgency"`

	MinEndingCash float64 `json:"min_ending_cash"`
	// FinalEndingCash is the last presented balance.
	FinalEndingCash float64 `json:"final_ending_cash"`
}

func Assess(ledger []forecast.Row) Assessment {
	runway, score := RunwayAndScore(ledger)
	a := Assessment{
		RunwayMonths:  runway,
		SurvivalScore: score,
		Urgency:       ClassifyUrgency(score),
	}
	if len(ledger) == 0 {
		return a
	}

	minv := math.Inf(1)
	for _, r := range ledger {
		if r.EndingCash < minv {
			minv = r.EndingCash
		}
	}
	a.MinEndingCash = minv
	a.FinalEndingCash = ledger[len(ledger)-1].EndingCash
	return a
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
