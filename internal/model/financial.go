package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultMonthsToProject = 36
	DefaultDecayFactor     = 0.95

	// MaxMonthsToProject bounds the ledger length a single request may ask for.
	MaxMonthsToProject = 1200
)

// FinancialInput is the baseline for one forecast.
// All amounts are in a single caller-chosen currency unit (the chat tool uses 10k CNY).
type FinancialInput struct {
	InitialCash       float64       `json:"initial_cash"`
	MonthlyBurn       float64       `json:"monthly_burn"`
	B2CMonthlyRevenue float64       `json:"b2c_monthly_revenue"`
	MonthsToProject   int           `json:"months_to_project"`
	B2BContracts      []B2BContract `json:"b2b_contracts"`
}

// B2BContract is a single lump receipt of Value*DecayFactor, collected
// PaymentTermsMonths after the month it was signed in.
type B2BContract struct {
	ContractName       string  `json:"contract_name"`
	Value              float64 `json:"value"`
	SignDate           string  `json:"sign_date"` // YYYY-MM-DD
	PaymentTermsMonths int     `json:"payment_terms_months"`
	DecayFactor        float64 `json:"decay_factor"`
}

// ScenarioInput is an optional overlay on a baseline forecast.
// UpfrontCost is added to starting cash once (a funding injection is positive,
// a one-time project cost negative).
type ScenarioInput struct {
	UpfrontCost        float64 `json:"upfront_cost"`
	MonthlyExtraBurn   float64 `json:"monthly_extra_burn"`
	RevenueDelayMonths int     `json:"revenue_delay_months"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
}

// NewFinancialInput applies defaults, copies the contract list and validates.
func NewFinancialInput(in FinancialInput) (FinancialInput, error) {
	out := in.WithDefaults()
	out.B2BContracts = append([]B2BContract(nil), in.B2BContracts...)
	if err := out.Validate(); err != nil {
		return FinancialInput{}, err
	}
	return out, nil
}

// NewB2BContract builds a validated contract with the default decay factor.
func NewB2BContract(name string, value float64, signDate string, paymentTermsMonths int) (B2BContract, error) {
	c := B2BContract{
		ContractName:       name,
		Value:              value,
		SignDate:           signDate,
		PaymentTermsMonths: paymentTermsMonths,
		DecayFactor:        DefaultDecayFactor,
	}
	if err := c.Validate(); err != nil {
		return B2BContract{}, err
	}
	return c, nil
}

// UnmarshalJSON applies DefaultDecayFactor when decay_factor is absent or null.
// An explicit 0 is kept.
func (c *B2BContract) UnmarshalJSON(data []byte) error {
	type plain B2BContract
	var raw struct {
		plain
		DecayFactor *float64 `json:"decay_factor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = B2BContract(raw.plain)
	c.DecayFactor = DefaultDecayFactor
	if raw.DecayFactor != nil {
		c.DecayFactor = *raw.DecayFactor
	}
	return nil
}

// NewScenarioInput validates a scenario overlay.
func NewScenarioInput(s ScenarioInput) (*ScenarioInput, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WithDefaults fills MonthsToProject when unset.
func (in FinancialInput) WithDefaults() FinancialInput {
	if in.MonthsToProject == 0 {
		in.MonthsToProject = DefaultMonthsToProject
	}
	return in
}

func (in FinancialInput) Validate() error {
	if !(in.InitialCash > 0) && !(in.MonthlyBurn > 0) {
		return &DegenerateInputError{InitialCash: in.InitialCash, MonthlyBurn: in.MonthlyBurn}
	}
	if err := positive("initial_cash", in.InitialCash); err != nil {
		return err
	}
	if err := positive("monthly_burn", in.MonthlyBurn); err != nil {
		return err
	}
	if err := nonNegative("b2c_monthly_revenue", in.B2CMonthlyRevenue); err != nil {
		return err
	}
	if in.MonthsToProject <= 0 {
		return &ValidationError{Field: "months_to_project", Reason: "must be a positive integer"}
	}
	if in.MonthsToProject > MaxMonthsToProject {
		return &ValidationError{Field: "months_to_project", Reason: fmt.Sprintf("must be <= %d", MaxMonthsToProject)}
	}
	for i, c := range in.B2BContracts {
		if err := c.validate(fmt.Sprintf("b2b_contracts[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (c B2BContract) Validate() error { return c.validate("b2b_contract") }

func (c B2BContract) validate(prefix string) error {
	if err := positive(prefix+".value", c.Value); err != nil {
		return err
	}
	if c.PaymentTermsMonths < 0 {
		return &ValidationError{Field: prefix + ".payment_terms_months", Reason: "must be >= 0"}
	}
	if !(c.DecayFactor >= 0 && c.DecayFactor <= 1) {
		return &ValidationError{Field: prefix + ".decay_factor", Reason: "must be in [0, 1]"}
	}
	if _, err := parseSignDate(prefix+".sign_date", c.SignDate); err != nil {
		return err
	}
	return nil
}

// Receipt is the amount actually expected to be collected, value x decay factor.
func (c B2BContract) Receipt() decimal.Decimal {
	return decimal.NewFromFloat(c.Value).Mul(decimal.NewFromFloat(c.DecayFactor))
}

// DueMonth returns the first day (UTC) of the month the contract pays out in.
// Month addition is exact calendar arithmetic: a contract signed on Jan 31 with
// one month terms is due in February.
func (c B2BContract) DueMonth() (time.Time, error) {
	signed, err := parseSignDate("sign_date", c.SignDate)
	if err != nil {
		return time.Time{}, err
	}
	return AddMonths(MonthStart(signed), c.PaymentTermsMonths), nil
}

func (s ScenarioInput) Validate() error {
	if math.IsNaN(s.UpfrontCost) || math.IsInf(s.UpfrontCost, 0) {
		return &ValidationError{Field: "upfront_cost", Reason: "must be a finite number"}
	}
	if err := nonNegative("monthly_extra_burn", s.MonthlyExtraBurn); err != nil {
		return err
	}
	if s.RevenueDelayMonths < 0 {
		return &ValidationError{Field: "revenue_delay_months", Reason: "must be >= 0"}
	}
	if err := nonNegative("monthly_revenue", s.MonthlyRevenue); err != nil {
		return err
	}
	return nil
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to a month start without day overflow.
func AddMonths(month time.Time, n int) time.Time {
	total := month.Year()*12 + int(month.Month()) - 1 + n
	return time.Date(floorDiv(total, 12), time.Month(floorMod(total, 12)+1), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of whole calendar months from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

var signDateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

func parseSignDate(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	var lastErr error
	for _, layout := range signDateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &DateParseError{Field: field, Value: value, Err: lastErr}
}

func positive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be > 0"}
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be >= 0"}
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
