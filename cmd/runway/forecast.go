package main

import (
	"fmt"
	"os"
	"path/filepath"

	"runway-agent/internal/analysis"
	"runway-agent/internal/cli"
	"runway-agent/internal/config"
	"runway-agent/internal/forecast"
	"runway-agent/internal/report"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagStart   string
	flagOut     string
	flagPreset  string
	flagShowAll bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project monthly cash flow from a YAML config and score the runway",
	Example: "  runway forecast --config examples/config.yaml\n" +
		"  runway forecast --config examples/config.yaml --start 2025-01 --out results/ledger.csv",
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config (required)")
	forecastCmd.Flags().StringVar(&flagStart, "start", "", "First projected month, YYYY-MM (overrides the config)")
	forecastCmd.Flags().StringVar(&flagOut, "out", "", "Write the full ledger to this CSV path")
	forecastCmd.Flags().StringVar(&flagPreset, "preset", "", "Scenario preset from $SCENARIO_DIR; the config's own scenario values still apply on top")
	forecastCmd.Flags().BoolVar(&flagShowAll, "all", false, "Print every month instead of the preview")
	_ = forecastCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadUnchecked(flagConfig)
	if err != nil {
		return err
	}
	if flagStart != "" {
		cfg.Start = flagStart
	}
	if flagPreset != "" {
		settings, _ := loadSettings()
		preset, err := config.ResolvePreset(settings.ScenarioDir, flagPreset)
		if err != nil {
			return fmt.Errorf("scenario preset %q: %w", flagPreset, err)
		}
		cfg.ScenarioFile = flagPreset
		cfg.Scenario = config.MergeScenario(preset, cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	start, err := cfg.StartMonth()
	if err != nil {
		return err
	}

	res, err := forecast.NewAt(start).Run(cfg.Financial.ToModel(), cfg.ScenarioModel())
	if err != nil {
		return err
	}
	a := analysis.Assess(res.Ledger)

	out := cmd.OutOrStdout()
	title := "CASH RUNWAY"
	if cfg.Company != "" {
		title += "  " + cfg.Company
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(title))
	fmt.Fprintln(out)
	if sc := cfg.ScenarioModel(); sc != nil {
		name := cfg.Scenario.Name
		if name == "" {
			name = "custom"
		}
		fmt.Fprint(out, cli.RenderKeyValues([][2]string{
			{"Scenario", name},
			{"Starting cash", cli.FormatAmount(res.StartingCash.InexactFloat64())},
		}))
	}
	fmt.Fprint(out, cli.RenderAssessment(a))

	if p := cfg.Project; p != nil && p.DurationMonths > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderFeasibility(analysis.CheckFeasibility(a.RunwayMonths, p.DurationMonths, p.Buffer(analysis.DefaultBufferMonths))))
	}

	rows := res.Ledger
	if !flagShowAll && len(rows) > report.PreviewMonths {
		rows = rows[:report.PreviewMonths]
	}
	table := cli.LedgerTable(rows)
	table.Title = fmt.Sprintf("First %d of %d months", len(rows), len(res.Ledger))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(table))

	if flagOut != "" {
		if err := os.MkdirAll(filepath.Dir(flagOut), 0o755); err != nil {
			return err
		}
		if err := forecast.WriteLedgerCSV(flagOut, res.Detail); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n  Wrote %d rows to %s\n", len(res.Detail), flagOut)
	}
	return nil
}
