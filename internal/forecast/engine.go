package forecast

import (
	"time"

	"runway-agent/internal/model"

	"github.com/shopspring/decimal"
)

// Engine builds month-by-month cash ledgers. It holds no state between runs,
// so one Engine may be shared by concurrent callers.
type Engine struct {
	// Start is the first projected month. Zero means the current month.
	Start time.Time
}

func New() *Engine { return &Engine{} }

// NewAt returns an engine whose projection begins in the month containing start.
func NewAt(start time.Time) *Engine { return &Engine{Start: start} }

func (e *Engine) startMonth() time.Time {
	if e == nil || e.Start.IsZero() {
		return model.MonthStart(time.Now())
	}
	return model.MonthStart(e.Start)
}

// Run validates the inputs and projects the ledger. No partial result is
// returned on failure.
func (e *Engine) Run(in model.FinancialInput, scenario *model.ScenarioInput) (*Result, error) {
	in, err := model.NewFinancialInput(in)
	if err != nil {
		return nil, err
	}
	if scenario != nil {
		if scenario, err = model.NewScenarioInput(*scenario); err != nil {
			return nil, err
		}
	}
	return build(in, scenario, e.startMonth())
}

// build assumes field constraints were already checked; it still fails on
// unparseable contract dates.
func build(in model.FinancialInput, scenario *model.ScenarioInput, start time.Time) (*Result, error) {
	n := in.MonthsToProject

	receipts := make([]decimal.Decimal, n)
	for _, c := range in.B2BContracts {
		due, err := c.DueMonth()
		if err != nil {
			return nil, err
		}
		idx := model.MonthsBetween(start, due)
		if idx < 0 || idx >= n {
			continue
		}
		receipts[idx] = receipts[idx].Add(c.Receipt())
	}

	recurringRevenue := decimal.NewFromFloat(in.B2CMonthlyRevenue)
	recurringBurn := decimal.NewFromFloat(in.MonthlyBurn)

	var scenarioRevenue, scenarioBurn decimal.Decimal
	revenueDelay := 0
	cash := decimal.NewFromFloat(in.InitialCash)
	if scenario != nil {
		cash = cash.Add(decimal.NewFromFloat(scenario.UpfrontCost))
		scenarioRevenue = decimal.NewFromFloat(scenario.MonthlyRevenue)
		scenarioBurn = decimal.NewFromFloat(scenario.MonthlyExtraBurn)
		revenueDelay = scenario.RevenueDelayMonths
	}
	starting := cash

	detail := make([]LedgerRow, 0, n)
	for idx := 0; idx < n; idx++ {
		row := LedgerRow{
			Index:            idx,
			Month:            model.AddMonths(start, idx),
			RecurringRevenue: recurringRevenue,
			ContractReceipts: receipts[idx],
			RecurringBurn:    recurringBurn,
		}
		if scenario != nil {
			row.ScenarioBurn = scenarioBurn
			if idx >= revenueDelay {
				row.ScenarioRevenue = scenarioRevenue
			}
		}
		row.TotalInflow = row.RecurringRevenue.Add(row.ContractReceipts).Add(row.ScenarioRevenue)
		row.TotalOutflow = row.RecurringBurn.Add(row.ScenarioBurn)
		row.NetCashFlow = row.TotalInflow.Sub(row.TotalOutflow)
		row.EndingCash = cash.Add(row.NetCashFlow)
		cash = row.EndingCash

		detail = append(detail, row)
	}

	return &Result{
		StartingCash: starting,
		Ledger:       Present(detail),
		Detail:       detail,
	}, nil
}
