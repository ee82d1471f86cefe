package model

// UrgencyLevel is the funding-urgency tier derived from a survival score.
// Keep these values stable; they are part of the API and CSV output.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "Low"
	UrgencyMedium   UrgencyLevel = "Medium"
	UrgencyHigh     UrgencyLevel = "High"
	UrgencyCritical UrgencyLevel = "Critical"
)

// Urgency pairs a tier with the advice shown to the user.
type Urgency struct {
	Level      UrgencyLevel `json:"level"`
	Suggestion string       `json:"suggestion"`
}
