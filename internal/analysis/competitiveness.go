package analysis

import "runway-agent/internal/model"

// levelScores is indexed by a status's strength rank (strongest first).
var levelScores = [4]float64{1.0, 0.75, 0.5, 0}

type CompetitiveScore struct {
	TechBarrier      float64 `json:"tech_barrier"`
	MarketValidation float64 `json:"market_validation"`
	Team             float64 `json:"team"`
	// Average of the three dimensions.
	Overall float64 `json:"overall"`
}

func ScoreCompetitiveness(in model.CompetitiveInput) (CompetitiveScore, error) {
	if err := in.Validate(); err != nil {
		return CompetitiveScore{}, err
	}
	s := CompetitiveScore{
		TechBarrier:      levelScores[model.LevelIndex(model.TechBarrierLevels, in.TechBarrierStatus)],
		MarketValidation: levelScores[model.LevelIndex(model.MarketValidationLevels, in.MarketValidationStatus)],
		Team:             levelScores[model.LevelIndex(model.TeamLevels, in.TeamStatus)],
	}
	s.Overall = roundTo2((s.TechBarrier + s.MarketValidation + s.Team) / 3)
	return s, nil
}
