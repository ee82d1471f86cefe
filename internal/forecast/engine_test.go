package forecast

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"runway-agent/internal/model"

	"github.com/shopspring/decimal"
)

var jan2025 = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func baseInput() model.FinancialInput {
	return model.FinancialInput{
		InitialCash:       1000,
		MonthlyBurn:       100,
		B2CMonthlyRevenue: 20,
		MonthsToProject:   12,
	}
}

func TestRunIsDeterministic(t *testing.T) {
	in := baseInput()
	in.B2BContracts = []model.B2BContract{
		{ContractName: "a", Value: 300, SignDate: "2025-02-15", PaymentTermsMonths: 2, DecayFactor: 0.95},
	}
	sc := &model.ScenarioInput{UpfrontCost: -50, MonthlyExtraBurn: 5, RevenueDelayMonths: 3, MonthlyRevenue: 12.5}

	e := NewAt(jan2025)
	first, err := e.Run(in, sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := e.Run(in, sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(first.Ledger, second.Ledger) {
		t.Fatalf("ledgers differ between identical runs")
	}
}

func TestBalanceRecurrence(t *testing.T) {
	in := baseInput()
	in.B2BContracts = []model.B2BContract{
		{ContractName: "a", Value: 333.33, SignDate: "2025-01-10", PaymentTermsMonths: 1, DecayFactor: 0.9},
	}
	sc := &model.ScenarioInput{UpfrontCost: 250, MonthlyExtraBurn: 7.77, RevenueDelayMonths: 2, MonthlyRevenue: 3.33}

	res, err := NewAt(jan2025).Run(in, sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Detail) != in.MonthsToProject || len(res.Ledger) != in.MonthsToProject {
		t.Fatalf("expected %d rows, got detail=%d ledger=%d", in.MonthsToProject, len(res.Detail), len(res.Ledger))
	}
	if !res.StartingCash.Equal(decimal.NewFromFloat(1250)) {
		t.Fatalf("starting cash = %s, want 1250", res.StartingCash)
	}

	prev := res.StartingCash
	for i, r := range res.Detail {
		if !r.EndingCash.Equal(prev.Add(r.NetCashFlow)) {
			t.Fatalf("row %d: ending %s != %s + %s", i, r.EndingCash, prev, r.NetCashFlow)
		}
		if !r.NetCashFlow.Equal(r.TotalInflow.Sub(r.TotalOutflow)) {
			t.Fatalf("row %d: net flow mismatch", i)
		}
		if i > 0 && !r.Month.After(res.Detail[i-1].Month) {
			t.Fatalf("row %d: months not increasing", i)
		}
		prev = r.EndingCash
	}
}

func TestContractPlacement(t *testing.T) {
	in := baseInput()
	in.B2BContracts = []model.B2BContract{
		{ContractName: "in-horizon", Value: 100, SignDate: "2025-01-31", PaymentTermsMonths: 1, DecayFactor: 0.5},
		{ContractName: "same-month", Value: 40, SignDate: "2024-12-01", PaymentTermsMonths: 2, DecayFactor: 1},
		{ContractName: "before-start", Value: 999, SignDate: "2024-06-01", PaymentTermsMonths: 3, DecayFactor: 1},
		{ContractName: "at-horizon", Value: 999, SignDate: "2025-01-01", PaymentTermsMonths: 12, DecayFactor: 1},
	}

	res, err := NewAt(jan2025).Run(in, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	total := decimal.Zero
	for i, r := range res.Detail {
		total = total.Add(r.ContractReceipts)
		if i != 1 && !r.ContractReceipts.IsZero() {
			t.Fatalf("unexpected receipts %s in row %d", r.ContractReceipts, i)
		}
	}
	// 100*0.5 + 40*1, both due February 2025.
	if !res.Detail[1].ContractReceipts.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("february receipts = %s, want 90", res.Detail[1].ContractReceipts)
	}
	if !total.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("total receipts = %s, want 90", total)
	}
	if res.Ledger[1].Month != "2025-02" {
		t.Fatalf("row 1 label = %q", res.Ledger[1].Month)
	}
}

func TestScenarioOverlay(t *testing.T) {
	in := baseInput()
	sc := &model.ScenarioInput{UpfrontCost: 500, MonthlyExtraBurn: 30, RevenueDelayMonths: 2, MonthlyRevenue: 50}

	res, err := NewAt(jan2025).Run(in, sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	l := res.Ledger
	if l[0].TotalOutflow != 130 || l[0].TotalInflow != 20 {
		t.Fatalf("row 0 = %+v", l[0])
	}
	if l[1].TotalInflow != 20 || l[2].TotalInflow != 70 {
		t.Fatalf("scenario revenue should start at index 2: %+v %+v", l[1], l[2])
	}
	if l[0].EndingCash != 1390 {
		t.Fatalf("row 0 ending = %v, want 1390", l[0].EndingCash)
	}
}

func TestPresentedLedgerRounding(t *testing.T) {
	in := model.FinancialInput{InitialCash: 0.1, MonthlyBurn: 0.2, MonthsToProject: 3}
	res, err := NewAt(jan2025).Run(in, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []float64{-0.1, -0.3, -0.5}
	for i, w := range want {
		if res.Ledger[i].EndingCash != w {
			t.Fatalf("row %d ending = %v, want %v", i, res.Ledger[i].EndingCash, w)
		}
	}
}

func TestZeroCashContractInjection(t *testing.T) {
	in := model.FinancialInput{
		InitialCash:     0,
		MonthlyBurn:     10,
		MonthsToProject: 36,
		B2BContracts: []model.B2BContract{
			{ContractName: "seed", Value: 120, SignDate: "2025-01-01", PaymentTermsMonths: 0, DecayFactor: 1.0},
		},
	}
	res, err := build(in, nil, jan2025)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r := res.Ledger[0]
	if r.TotalInflow != 120 || r.TotalOutflow != 10 || r.EndingCash != 110 {
		t.Fatalf("row 0 = %+v", r)
	}
	if res.Ledger[11].EndingCash != 0 || res.Ledger[12].EndingCash != -10 {
		t.Fatalf("unexpected tail: %+v %+v", res.Ledger[11], res.Ledger[12])
	}
}

func TestRunRejectsZeroCash(t *testing.T) {
	in := model.FinancialInput{InitialCash: 0, MonthlyBurn: 10}
	_, err := New().Run(in, nil)
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "initial_cash" {
		t.Fatalf("expected initial_cash validation error, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		in   model.FinancialInput
		sc   *model.ScenarioInput
		code string
	}{
		{"degenerate", model.FinancialInput{InitialCash: 0, MonthlyBurn: -5}, nil, "DEGENERATE_INPUT"},
		{"negative burn", model.FinancialInput{InitialCash: 10, MonthlyBurn: -1}, nil, "VALIDATION_ERROR"},
		{"too many months", model.FinancialInput{InitialCash: 10, MonthlyBurn: 1, MonthsToProject: model.MaxMonthsToProject + 1}, nil, "VALIDATION_ERROR"},
		{"bad date", model.FinancialInput{InitialCash: 10, MonthlyBurn: 1, B2BContracts: []model.B2BContract{
			{ContractName: "x", Value: 1, SignDate: "2025-13-40", DecayFactor: 1},
		}}, nil, "DATE_PARSE_ERROR"},
		{"bad scenario", model.FinancialInput{InitialCash: 10, MonthlyBurn: 1}, &model.ScenarioInput{RevenueDelayMonths: -1}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewAt(jan2025).Run(tt.in, tt.sc)
			if err == nil {
				t.Fatalf("expected error")
			}
			if res != nil {
				t.Fatalf("expected no partial result")
			}
			if got := model.InputErrorCode(err); got != tt.code {
				t.Fatalf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDefaultMonths(t *testing.T) {
	res, err := NewAt(jan2025).Run(model.FinancialInput{InitialCash: 10, MonthlyBurn: 1}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Ledger) != model.DefaultMonthsToProject {
		t.Fatalf("rows = %d", len(res.Ledger))
	}
	if res.Ledger[35].Month != "2027-12" {
		t.Fatalf("last month = %q", res.Ledger[35].Month)
	}
}

func TestEncodeLedgerCSV(t *testing.T) {
	res, err := NewAt(jan2025).Run(model.FinancialInput{InitialCash: 100, MonthlyBurn: 10, MonthsToProject: 2}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeLedgerCSV(&buf, res.Detail); err != nil {
		t.Fatalf("encode: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[2][1] != "2025-02" || records[2][10] != "80.00" {
		t.Fatalf("row = %v", records[2])
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := NewAt(jan2025).Run(model.FinancialInput{InitialCash: 100, MonthlyBurn: 10, MonthsToProject: 2}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := WriteLedgerCSV(path, res.Detail); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 || records[1][1] != "2025-01" {
		t.Fatalf("records = %v", records)
	}

	if err := WriteLedgerCSV(filepath.Join(t.TempDir(), "missing", "ledger.csv"), res.Detail); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
