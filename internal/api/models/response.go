package models

import (
	"runway-agent/internal/agent"
	"runway-agent/internal/analysis"
	"runway-agent/internal/config"
	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
)

// ForecastResponse is the scored result of one forecast run.
type ForecastResponse struct {
	Company      string                 `json:"company,omitempty"`
	Status       string                 `json:"status"`
	StartingCash float64                `json:"starting_cash"`
	Window       ForecastWindow         `json:"window"`
	Scenario     *config.ScenarioConfig `json:"scenario,omitempty"`
	Summary      analysis.Assessment    `json:"summary"`
	Feasibility  *analysis.Feasibility  `json:"feasibility,omitempty"`
	Ledger       []forecast.Row         `json:"ledger,omitempty"`
	Detail       []LedgerRow            `json:"detail,omitempty"`
}

// ForecastWindow is the first and last projected month (YYYY-MM).
type ForecastWindow struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Months int    `json:"months"`
}

// LedgerRow is one month with every inflow and outflow column.
type LedgerRow struct {
	Index            int     `json:"index"`
	Month            string  `json:"month"`
	RecurringRevenue float64 `json:"recurring_revenue"`
	ContractReceipts float64 `json:"contract_receipts"`
	ScenarioRevenue  float64 `json:"scenario_revenue"`
	TotalInflow      float64 `json:"total_inflow"`
	RecurringBurn    float64 `json:"recurring_burn"`
	ScenarioBurn     float64 `json:"scenario_burn"`
	TotalOutflow     float64 `json:"total_outflow"`
	NetCashFlow      float64 `json:"net_cash_flow"`
	EndingCash       float64 `json:"ending_cash"`
}

// CompareForecastResponse holds the baseline and one result per variation.
type CompareForecastResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation. Error is set when the
// variation could not be run.
type ComparisonResult struct {
	Name     string                 `json:"name"`
	Scenario *config.ScenarioConfig `json:"scenario,omitempty"`
	Summary  *analysis.Assessment   `json:"summary,omitempty"`
	Error    *ErrorDetail           `json:"error,omitempty"`
}

type CompanyResponse struct {
	Name        string                     `json:"name"`
	UpdatedAt   string                     `json:"updated_at,omitempty"`
	Competitive model.CompetitiveInput     `json:"competitive"`
	Financial   model.FinancialInput       `json:"financial"`
	Scores      *analysis.CompetitiveScore `json:"competitive_score,omitempty"`
	Summary     *analysis.Assessment       `json:"summary,omitempty"`
}

// RankResponse lists saved companies by survival score.
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
	// Skipped names companies whose saved financials could not be forecast.
	Skipped []string `json:"skipped,omitempty"`
}

type Ranking struct {
	Rank int `json:"rank"`
	analysis.RankedCompany
}

type ChatResponse struct {
	SessionID  string       `json:"session_id"`
	Output     string       `json:"output"`
	Iterations int          `json:"iterations"`
	Stopped    bool         `json:"stopped"`
	Steps      []agent.Step `json:"steps,omitempty"`
}

// ToolInfo describes one assistant tool.
type ToolInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	InputRequired bool   `json:"input_required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
