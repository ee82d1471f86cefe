package models

import (
	"runway-agent/internal/config"
	"runway-agent/internal/model"
)

// ForecastRequest is the body of POST /api/v1/forecast and /forecast/report.
// The embedded config uses the same keys as the YAML config file; scenario_file
// names a preset in the scenarios directory.
type ForecastRequest struct {
	config.Config
	Options ForecastOptions `json:"options,omitempty"`
}

// ForecastOptions controls how much of the ledger is returned.
type ForecastOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
	IncludeDetail bool `json:"include_detail,omitempty"` // every column, default: false
}

// CompareForecastRequest runs one baseline against several scenario overlays.
type CompareForecastRequest struct {
	Base       config.Config       `json:"base" binding:"required"`
	Variations []ScenarioVariation `json:"variations" binding:"required"`
}

// ScenarioVariation is merged over the base scenario. Preset is resolved first,
// then Scenario overrides its non-zero fields.
type ScenarioVariation struct {
	Name     string                `json:"name" binding:"required"`
	Preset   string                `json:"preset,omitempty"`
	Scenario config.ScenarioConfig `json:"scenario,omitempty"`
}

type FeasibilityRequest struct {
	RunwayMonths    int  `json:"runway_months"`
	ProjectDuration int  `json:"project_duration"`
	BufferMonths    *int `json:"buffer_months,omitempty"` // default: 6
}

// CompanyRequest creates or replaces a saved company.
type CompanyRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Competitive model.CompetitiveInput `json:"competitive"`
	Financial   model.FinancialInput   `json:"financial"`
}

type WatchlistRequest struct {
	Company string `json:"company" binding:"required"`
}

// ChatRequest asks the assistant a question. An empty or unknown session_id
// starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// RankRequest filters GET /api/v1/companies/rank.
type RankRequest struct {
	Limit int `form:"limit,omitempty"` // default: all
}
