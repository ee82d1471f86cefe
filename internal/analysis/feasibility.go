package analysis

import (
	"fmt"

	"runway-agent/internal/model"
)

const DefaultBufferMonths = 6

type Feasibility struct {
	Feasible       bool   `json:"feasible"`
	RunwayMonths   int    `json:"runway_months"`
	RequiredMonths int    `json:"required_months"`
	Reason         string `json:"reason"`
}

// CheckFeasibility reports whether the runway covers a project plus a safety buffer.
func CheckFeasibility(runwayMonths, projectDuration, bufferMonths int) Feasibility {
	required := projectDuration + bufferMonths
	ok := runwayMonths >= required
	verdict := "does not cover"
	if ok {
		verdict = "covers"
	}
	return Feasibility{
		Feasible:       ok,
		RunwayMonths:   runwayMonths,
		RequiredMonths: required,
		Reason: fmt.Sprintf("Current runway (%d months) %s the project duration plus safety buffer (%d months).",
			runwayMonths, verdict, required),
	}
}

// ValidateFeasibilityArgs rejects negative month counts before CheckFeasibility.
func ValidateFeasibilityArgs(runwayMonths, projectDuration, bufferMonths int) error {
	if runwayMonths < 0 {
		return &model.ValidationError{Field: "runway_months", Reason: "must be >= 0"}
	}
	if projectDuration < 0 {
		return &model.ValidationError{Field: "project_duration", Reason: "must be >= 0"}
	}
	if bufferMonths < 0 {
		return &model.ValidationError{Field: "buffer_months", Reason: "must be >= 0"}
	}
	return nil
}
