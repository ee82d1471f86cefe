package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one projected month at full detail.
// Amounts are exact; rounding happens only when rows are presented.
type LedgerRow struct {
	Index int
	Month time.Time // first day of the month, UTC

	RecurringRevenue decimal.Decimal
	ContractReceipts decimal.Decimal
	ScenarioRevenue  decimal.Decimal
	TotalInflow      decimal.Decimal

	RecurringBurn decimal.Decimal
	ScenarioBurn  decimal.Decimal
	TotalOutflow  decimal.Decimal

	NetCashFlow decimal.Decimal
	EndingCash  decimal.Decimal
}

// Label is the YYYY-MM key used in presented output.
func (r LedgerRow) Label() string { return r.Month.Format("2006-01") }

// Row is the presented form of a month: four summary columns, rounded to cents.
type Row struct {
	Month        string  `json:"month"`
	TotalInflow  float64 `json:"total_inflow"`
	TotalOutflow float64 `json:"total_outflow"`
	NetCashFlow  float64 `json:"net_cash_flow"`
	EndingCash   float64 `json:"ending_cash"`
}

type Result struct {
	// StartingCash is initial cash plus any scenario upfront amount.
	StartingCash decimal.Decimal
	// Ledger is the presented forecast consumed by scoring and reports.
	Ledger []Row
	// Detail keeps every column; callers that only render summaries can ignore it.
	Detail []LedgerRow
}

// Present strips detail columns and rounds to two decimals.
func Present(detail []LedgerRow) []Row {
	out := make([]Row, len(detail))
	for i, r := range detail {
		out[i] = Row{
			Month:        r.Label(),
			TotalInflow:  round2(r.TotalInflow),
			TotalOutflow: round2(r.TotalOutflow),
			NetCashFlow:  round2(r.NetCashFlow),
			EndingCash:   round2(r.EndingCash),
		}
	}
	return out
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
