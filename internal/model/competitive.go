package model

import "fmt"

// TechBarrierStatus, MarketValidationStatus and TeamStatus are the fixed
// four-level answers of the competitiveness questionnaire, strongest first.
type (
	TechBarrierStatus      string
	MarketValidationStatus string
	TeamStatus             string
)

const (
	TechMassProduction TechBarrierStatus = "mass_production_100_plus" // shipped >= 100 units
	TechDemoAndPatents TechBarrierStatus = "public_demo_and_patents"  // public demo + top venue / >= 3 core patents
	TechPatentOrPaper  TechBarrierStatus = "patent_or_paper"          // >= 1 patent or paper
	TechNone           TechBarrierStatus = "none"
)

const (
	MarketBindingContract MarketValidationStatus = "binding_large_contract"
	MarketPrepaidContract MarketValidationStatus = "contract_with_prepayment"
	MarketPartnershipNews MarketValidationStatus = "partnership_news_only"
	MarketNoEndorsement   MarketValidationStatus = "none"
)

const (
	TeamRenownedExpert TeamStatus = "renowned_expert_joined"
	TeamStarCore       TeamStatus = "star_core_team"
	TeamGeneralHiring  TeamStatus = "general_hiring"
	TeamStagnant       TeamStatus = "stagnant"
)

var (
	TechBarrierLevels      = []TechBarrierStatus{TechMassProduction, TechDemoAndPatents, TechPatentOrPaper, TechNone}
	MarketValidationLevels = []MarketValidationStatus{MarketBindingContract, MarketPrepaidContract, MarketPartnershipNews, MarketNoEndorsement}
	TeamLevels             = []TeamStatus{TeamRenownedExpert, TeamStarCore, TeamGeneralHiring, TeamStagnant}
)

// CompetitiveInput is the qualitative half of a company record.
type CompetitiveInput struct {
	TechBarrierStatus      TechBarrierStatus      `json:"tech_barrier_status"`
	MarketValidationStatus MarketValidationStatus `json:"market_validation_status"`
	TeamStatus             TeamStatus             `json:"team_status"`
}

func (c CompetitiveInput) Validate() error {
	if LevelIndex(TechBarrierLevels, c.TechBarrierStatus) < 0 {
		return invalidLevel("tech_barrier_status", c.TechBarrierStatus)
	}
	if LevelIndex(MarketValidationLevels, c.MarketValidationStatus) < 0 {
		return invalidLevel("market_validation_status", c.MarketValidationStatus)
	}
	if LevelIndex(TeamLevels, c.TeamStatus) < 0 {
		return invalidLevel("team_status", c.TeamStatus)
	}
	return nil
}

// LevelIndex returns the 0-based strength rank of v in levels, or -1.
func LevelIndex[T ~string](levels []T, v T) int {
	for i, l := range levels {
		if l == v {
			return i
		}
	}
	return -1
}

func invalidLevel[T ~string](field string, v T) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has unknown value %q", string(v))}
}
