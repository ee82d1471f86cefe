package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"runway-agent/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk forecast request shape (YAML).
type Config struct {
	Company string `yaml:"company" json:"company,omitempty"`
	// Start is the first projected month (YYYY-MM). Empty means the current month.
	Start string `yaml:"start" json:"start,omitempty"`

	Financial FinancialConfig `yaml:"financial" json:"financial"`

	// Optional: load a scenario overlay from a separate YAML (e.g. examples/scenarios/*.yaml).
	// If both ScenarioFile and Scenario are provided, Scenario overrides ScenarioFile.
	ScenarioFile string         `yaml:"scenario_file" json:"scenario_file,omitempty"`
	Scenario     ScenarioConfig `yaml:"scenario" json:"scenario"`

	Project *ProjectConfig `yaml:"project" json:"project,omitempty"`
}

type FinancialConfig struct {
	InitialCash       float64          `yaml:"initial_cash" json:"initial_cash"`
	MonthlyBurn       float64          `yaml:"monthly_burn" json:"monthly_burn"`
	B2CMonthlyRevenue float64          `yaml:"b2c_monthly_revenue" json:"b2c_monthly_revenue"`
	MonthsToProject   int              `yaml:"months_to_project" json:"months_to_project"`
	B2BContracts      []ContractConfig `yaml:"b2b_contracts" json:"b2b_contracts"`
}

type ContractConfig struct {
	ContractName       string  `yaml:"contract_name" json:"contract_name"`
	Value              float64 `yaml:"value" json:"value"`
	SignDate           string  `yaml:"sign_date" json:"sign_date"`
	PaymentTermsMonths int     `yaml:"payment_terms_months" json:"payment_terms_months"`
	// Nil means the default decay factor.
	DecayFactor *float64 `yaml:"decay_factor" json:"decay_factor,omitempty"`
}

type ScenarioConfig struct {
	Name               string  `yaml:"name" json:"name,omitempty"`
	Description        string  `yaml:"description" json:"description,omitempty"`
	UpfrontCost        float64 `yaml:"upfront_cost" json:"upfront_cost"`
	MonthlyExtraBurn   float64 `yaml:"monthly_extra_burn" json:"monthly_extra_burn"`
	RevenueDelayMonths int     `yaml:"revenue_delay_months" json:"revenue_delay_months"`
	MonthlyRevenue     float64 `yaml:"monthly_revenue" json:"monthly_revenue"`
}

type ProjectConfig struct {
	DurationMonths int `yaml:"duration_months" json:"duration_months"`
	// Nil means the default buffer.
	BufferMonths *int `yaml:"buffer_months" json:"buffer_months,omitempty"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.ScenarioFile != "" {
		scenarioPath := c.ScenarioFile
		if !filepath.IsAbs(scenarioPath) {
			// Relative to the config file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), scenarioPath)
			if _, err := os.Stat(cand); err == nil {
				scenarioPath = cand
			}
		}
		loaded, err := LoadScenarioFile(scenarioPath)
		if err != nil {
			return nil, err
		}
		c.Scenario = MergeScenario(loaded, c.Scenario)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := model.NewFinancialInput(c.Financial.ToModel()); err != nil {
		return fmt.Errorf("financial config invalid: %w", err)
	}
	if sc := c.ScenarioModel(); sc != nil {
		if _, err := model.NewScenarioInput(*sc); err != nil {
			return fmt.Errorf("scenario config invalid: %w", err)
		}
	}
	if _, err := c.StartMonth(); err != nil {
		return err
	}
	if p := c.Project; p != nil {
		if p.DurationMonths < 0 {
			return &model.ValidationError{Field: "project.duration_months", Reason: "must be >= 0"}
		}
		if p.BufferMonths != nil && *p.BufferMonths < 0 {
			return &model.ValidationError{Field: "project.buffer_months", Reason: "must be >= 0"}
		}
	}
	return nil
}

// StartMonth parses Start. A zero time means "current month".
func (c *Config) StartMonth() (time.Time, error) {
	if c.Start == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01", c.Start)
	if err != nil {
		return time.Time{}, &model.DateParseError{Field: "start", Value: c.Start, Err: err}
	}
	return t, nil
}

// ScenarioModel returns nil when no scenario was configured.
func (c *Config) ScenarioModel() *model.ScenarioInput {
	if c.ScenarioFile == "" && c.Scenario.IsZero() {
		return nil
	}
	sc := c.Scenario.ToModel()
	return &sc
}

func (f FinancialConfig) ToModel() model.FinancialInput {
	in := model.FinancialInput{
		InitialCash:       f.InitialCash,
		MonthlyBurn:       f.MonthlyBurn,
		B2CMonthlyRevenue: f.B2CMonthlyRevenue,
		MonthsToProject:   f.MonthsToProject,
	}
	for _, c := range f.B2BContracts {
		decay := model.DefaultDecayFactor
		if c.DecayFactor != nil {
			decay = *c.DecayFactor
		}
		in.B2BContracts = append(in.B2BContracts, model.B2BContract{
			ContractName:       c.ContractName,
			Value:              c.Value,
			SignDate:           c.SignDate,
			PaymentTermsMonths: c.PaymentTermsMonths,
			DecayFactor:        decay,
		})
	}
	return in
}

func (s ScenarioConfig) ToModel() model.ScenarioInput {
	return model.ScenarioInput{
		UpfrontCost:        s.UpfrontCost,
		MonthlyExtraBurn:   s.MonthlyExtraBurn,
		RevenueDelayMonths: s.RevenueDelayMonths,
		MonthlyRevenue:     s.MonthlyRevenue,
	}
}

func (s ScenarioConfig) IsZero() bool {
	return s.UpfrontCost == 0 && s.MonthlyExtraBurn == 0 && s.RevenueDelayMonths == 0 && s.MonthlyRevenue == 0
}

// Buffer returns the configured buffer or def.
func (p *ProjectConfig) Buffer(def int) int {
	if p == nil || p.BufferMonths == nil {
		return def
	}
	return *p.BufferMonths
}

type scenarioFileWrapper struct {
	Scenario ScenarioConfig `yaml:"scenario"`
}

func LoadScenarioFile(path string) (ScenarioConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScenarioConfig{}, err
	}
	var w scenarioFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ScenarioConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Scenario, nil
}

// MergeScenario overlays non-zero fields from override onto base.
// A zero override cannot clear a preset value; edit the preset instead.
func MergeScenario(base, override ScenarioConfig) ScenarioConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.UpfrontCost != 0 {
		out.UpfrontCost = override.UpfrontCost
	}
	if override.MonthlyExtraBurn != 0 {
		out.MonthlyExtraBurn = override.MonthlyExtraBurn
	}
	if override.RevenueDelayMonths != 0 {
		out.RevenueDelayMonths = override.RevenueDelayMonths
	}
	if override.MonthlyRevenue != 0 {
		out.MonthlyRevenue = override.MonthlyRevenue
	}
	return out
}
