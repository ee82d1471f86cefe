package main

import (
	"fmt"

	"runway-agent/internal/analysis"
	"runway-agent/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagRunway   int
	flagDuration int
	flagBuffer   int
)

var feasibilityCmd = &cobra.Command{
	Use:   "feasibility",
	Short: "Check whether a runway covers a project plus a safety buffer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := analysis.ValidateFeasibilityArgs(flagRunway, flagDuration, flagBuffer); err != nil {
			return err
		}
		f := analysis.CheckFeasibility(flagRunway, flagDuration, flagBuffer)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), cli.RenderFeasibility(f))
		return nil
	},
}

func init() {
	feasibilityCmd.Flags().IntVar(&flagRunway, "runway", 0, "Runway in months (required)")
	feasibilityCmd.Flags().IntVar(&flagDuration, "duration", 0, "Project duration in months (required)")
	feasibilityCmd.Flags().IntVar(&flagBuffer, "buffer", analysis.DefaultBufferMonths, "Safety buffer in months")
	_ = feasibilityCmd.MarkFlagRequired("runway")
	_ = feasibilityCmd.MarkFlagRequired("duration")
	rootCmd.AddCommand(feasibilityCmd)
}
