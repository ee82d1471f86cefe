package cli

import (
	"strings"
	"testing"

	"runway-agent/internal/analysis"
	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		12.5:       "12.50",
		1234.567:   "1,234.57",
		-9876543.2: "-9,876,543.20",
		-0.001:     "0.00",
		100000:     "100,000.00",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(0.17); got != "17/100" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(LedgerTable([]forecast.Row{
		{Month: "2025-01", TotalInflow: 0, TotalOutflow: 30, NetCashFlow: -30, EndingCash: 170},
		{Month: "2025-02", TotalInflow: 1000, TotalOutflow: 30, NetCashFlow: 970, EndingCash: 1140},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines (borders, header, rows), got %d:\n%s", len(lines), out)
	}
	for _, want := range []string{"Ending cash", "2025-01", "-30.00", "1,140.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Fatalf("empty table should render nothing")
	}
}

func TestRenderAssessment(t *testing.T) {
	a := analysis.Assessment{
		RunwayMonths:  6,
		SurvivalScore: 0.17,
		Urgency:       model.Urgency{Level: model.UrgencyCritical, Suggestion: "raise now"},
	}
	out := RenderAssessment(a)
	for _, want := range []string{"6 months", "17/100", "Critical", "raise now"} {
		if !strings.Contains(out, want) {
			t.Fatalf("assessment missing %q:\n%s", want, out)
		}
	}

	f := RenderFeasibility(analysis.CheckFeasibility(6, 12, 6))
	if !strings.Contains(f, "NOT FEASIBLE") || !strings.Contains(f, "18 months") {
		t.Fatalf("unexpected feasibility block:\n%s", f)
	}
}
