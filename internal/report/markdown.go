package report

import (
	"fmt"
	"strings"

	"runway-agent/internal/analysis"
	"runway-agent/internal/forecast"
)

// PreviewMonths is how many ledger rows the forecast report shows.
const PreviewMonths = 6

type Options struct {
	Title string
	// Unit labels the amounts in the preview table, e.g. "10k CNY".
	Unit string
	// Feasibility is appended when set.
	Feasibility *analysis.Feasibility
}

// Markdown renders the scored forecast as a short report with a preview table.
func Markdown(ledger []forecast.Row, a analysis.Assessment, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "Financial Scenario Analysis"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", title)
	fmt.Fprintf(&b, "- **Cash runway**: %d months\n", a.RunwayMonths)
	fmt.Fprintf(&b, "- **Financial health score**: %.0f/100\n", a.SurvivalScore*100)
	fmt.Fprintf(&b, "- **Funding urgency**: %s\n", a.Urgency.Level)
	fmt.Fprintf(&b, "- **Financing advice**: %s\n", a.Urgency.Suggestion)
	if f := opts.Feasibility; f != nil {
		verdict := "not feasible"
		if f.Feasible {
			verdict = "feasible"
		}
		fmt.Fprintf(&b, "- **Project feasibility**: %s. %s\n", verdict, f.Reason)
	}

	n := min(PreviewMonths, len(ledger))
	if n == 0 {
		return b.String()
	}
	heading := fmt.Sprintf("Cash flow forecast, next %d months", n)
	if opts.Unit != "" {
		heading += " (unit: " + opts.Unit + ")"
	}
	fmt.Fprintf(&b, "\n#### %s\n\n", heading)
	b.WriteString(PreviewTable(ledger[:n]))
	return b.String()
}

// PreviewTable renders ledger rows as a GFM table.
func PreviewTable(rows []forecast.Row) string {
	var b strings.Builder
	b.WriteString("| Month | Total inflow | Total outflow | Net cash flow | Ending cash |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f |\n",
			r.Month, r.TotalInflow, r.TotalOutflow, r.NetCashFlow, r.EndingCash)
	}
	return b.String()
}
