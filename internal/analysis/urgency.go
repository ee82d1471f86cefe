package analysis

import "runway-agent/internal/model"

const (
	suggestLow      = "Cash flow is healthy; financing is optional."
	suggestMedium   = "Consider strategic financing to accelerate growth."
	suggestHigh     = "Financing need is high; prioritize starting a round."
	suggestCritical = "Cash is about to run out; start financing immediately."
)

// ClassifyUrgency maps a survival score onto a funding-urgency tier.
// Bands are closed at the bottom: 0.75 is Medium, 0.50 is Medium, 0.25 is High.
func ClassifyUrgency(score float64) model.Urgency {
	switch {
	case score > 0.75:
		return model.Urgency{Level: model.UrgencyLow, Suggestion: suggestLow}
	case score >= 0.50:
		return model.Urgency{Level: model.UrgencyMedium, Suggestion: suggestMedium}
	case score >= 0.25:
		return model.Urgency{Level: model.UrgencyHigh, Suggestion: suggestHigh}
	default:
		return model.Urgency{Level: model.UrgencyCritical, Suggestion: suggestCritical}
	}
}
