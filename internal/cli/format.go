package cli

import (
	"fmt"
	"strings"

	"runway-agent/internal/analysis"
	"runway-agent/internal/forecast"
)

// FormatAmount renders a two-decimal amount with thousands separators.
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// FormatScore renders a [0, 1] survival score as "NN/100".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.0f/100", score*100)
}

// LedgerTable turns forecast rows into table rows.
func LedgerTable(rows []forecast.Row) Table {
	t := Table{Headers: []string{"Month", "Inflow", "Outflow", "Net", "Ending cash"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Month,
			FormatAmount(r.TotalInflow),
			FormatAmount(r.TotalOutflow),
			FormatAmount(r.NetCashFlow),
			FormatAmount(r.EndingCash),
		})
	}
	return t
}

// RenderAssessment renders the scored summary block.
func RenderAssessment(a analysis.Assessment) string {
	return RenderKeyValues([][2]string{
		{"Cash runway", fmt.Sprintf("%d months", a.RunwayMonths)},
		{"Health score", FormatScore(a.SurvivalScore)},
		{"Funding urgency", UrgencyStyle(a.Urgency.Level).Render(string(a.Urgency.Level))},
		{"Advice", a.Urgency.Suggestion},
		{"Lowest balance", FormatAmount(a.MinEndingCash)},
		{"Final balance", FormatAmount(a.FinalEndingCash)},
	})
}

// RenderFeasibility renders a feasibility verdict line.
func RenderFeasibility(f analysis.Feasibility) string {
	verdict := negativeStyle.Render("NOT FEASIBLE")
	if f.Feasible {
		verdict = positiveStyle.Render("FEASIBLE")
	}
	return RenderKeyValues([][2]string{
		{"Project", verdict},
		{"Runway", fmt.Sprintf("%d months", f.RunwayMonths)},
		{"Required", fmt.Sprintf("%d months", f.RequiredMonths)},
		{"Reason", f.Reason},
	})
}
