package forecast

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var ledgerHeader = []string{
	"index",
	"month",
	"recurring_revenue",
	"contract_receipts",
	"scenario_revenue",
	"total_inflow",
	"recurring_burn",
	"scenario_burn",
	"total_outflow",
	"net_cash_flow",
	"ending_cash",
}

// WriteLedgerCSV writes the full-detail ledger to path.
func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeLedgerCSV(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeLedgerCSV writes the full-detail ledger, amounts rounded to cents.
func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			r.Label(),
			r.RecurringRevenue.StringFixed(2),
			r.ContractReceipts.StringFixed(2),
			r.ScenarioRevenue.StringFixed(2),
			r.TotalInflow.StringFixed(2),
			r.RecurringBurn.StringFixed(2),
			r.ScenarioBurn.StringFixed(2),
			r.TotalOutflow.StringFixed(2),
			r.NetCashFlow.StringFixed(2),
			r.EndingCash.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
