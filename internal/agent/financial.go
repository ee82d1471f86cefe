package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"runway-agent/internal/analysis"
	"runway-agent/internal/forecast"
	"runway-agent/internal/llm"
	"runway-agent/internal/model"
	"runway-agent/internal/report"
)

// AmountUnit is the unit the chat tool asks the model to normalize amounts to.
const AmountUnit = "10k CNY"

const extractSystem = "You extract numeric financial parameters from questions. Answer with strict JSON only."

// FinancialQuery is what the model extracts from a natural-language question.
type FinancialQuery struct {
	InitialCash       float64         `json:"initial_cash"`
	MonthlyBurn       float64         `json:"monthly_burn"`
	B2CMonthlyRevenue float64         `json:"b2c_monthly_revenue"`
	Contracts         []ContractQuery `json:"b2b_contracts"`
}

// ContractQuery is a signed B2B contract mentioned in the question.
type ContractQuery struct {
	Name               string  `json:"contract_name"`
	Value              float64 `json:"value"`
	SignDate           string  `json:"sign_date"`
	PaymentTermsMonths int     `json:"payment_terms_months"`
}

// Input converts the extracted numbers into a forecast input. Contracts get the
// default collection decay factor.
func (q FinancialQuery) Input() (model.FinancialInput, error) {
	in := model.FinancialInput{
		InitialCash:       q.InitialCash,
		MonthlyBurn:       q.MonthlyBurn,
		B2CMonthlyRevenue: q.B2CMonthlyRevenue,
	}
	for _, cq := range q.Contracts {
		c, err := model.NewB2BContract(cq.Name, cq.Value, cq.SignDate, cq.PaymentTermsMonths)
		if err != nil {
			return model.FinancialInput{}, err
		}
		in.B2BContracts = append(in.B2BContracts, c)
	}
	return in, nil
}

// FinancialAnalyzer answers "what is my runway" questions end to end.
type FinancialAnalyzer struct {
	provider llm.Provider
	engine   *forecast.Engine
}

func NewFinancialAnalyzer(p llm.Provider, e *forecast.Engine) *FinancialAnalyzer {
	if e == nil {
		e = forecast.New()
	}
	return &FinancialAnalyzer{provider: p, engine: e}
}

// Extract asks the model for the baseline numbers and any signed contracts.
func (f *FinancialAnalyzer) Extract(ctx context.Context, query string) (FinancialQuery, error) {
	prompt := fmt.Sprintf(`Extract the financial parameters from the question below.
All amounts must be expressed in units of %s; for example "2 million CNY" is 200.
Use 0 for any value the question does not mention.
Return a JSON object with the keys "initial_cash" (company cash on hand), "monthly_burn" (monthly operating cost) and "b2c_monthly_revenue" (monthly consumer revenue), all numbers.
If the question mentions signed B2B contracts, add "b2b_contracts": a list of objects with "contract_name", "value", "sign_date" (YYYY-MM-DD) and "payment_terms_months"; otherwise use an empty list.

Question: %q`, AmountUnit, query)

	raw, err := f.provider.Generate(ctx, extractSystem, prompt, llm.Options{JSON: true, Temperature: llm.Float(0)})
	if err != nil {
		return FinancialQuery{}, fmt.Errorf("extract financial parameters: %w", err)
	}
	if !strings.Contains(raw, "{") {
		return FinancialQuery{}, fmt.Errorf("extract financial parameters: model returned no JSON object: %q", raw)
	}
	var q FinancialQuery
	if err := llm.DecodeJSON(raw, &q); err != nil {
		return FinancialQuery{}, fmt.Errorf("extract financial parameters: %w", err)
	}
	return q, nil
}

// Analyze runs extraction, forecast, scoring and formatting. Data-entry problems
// are answered in plain language rather than returned as errors.
func (f *FinancialAnalyzer) Analyze(ctx context.Context, query string) (string, error) {
	q, err := f.Extract(ctx, query)
	if err != nil {
		return "", err
	}

	in, err := q.Input()
	var res *forecast.Result
	if err == nil {
		res, err = f.engine.Run(in, nil)
	}
	var degenerate *model.DegenerateInputError
	switch {
	case errors.As(err, &degenerate):
		return "Not enough information for a financial analysis. Please provide the initial cash and the monthly burn.", nil
	case model.IsInputError(err):
		return fmt.Sprintf("Sorry, the financial parameters in your question could not be used. Make sure it includes explicit numbers, e.g. \"initial cash 2 million\". Details: %v", err), nil
	case err != nil:
		return "", err
	}

	a := analysis.Assess(res.Ledger)
	return report.Markdown(res.Ledger, a, report.Options{
		Title: "Financial Scenario Analysis Report",
		Unit:  AmountUnit,
	}), nil
}
