package main

import (
	"errors"
	"fmt"

	"runway-agent/internal/cli"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check watched companies for new market news",
}

var monitorRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one monitoring sweep over the watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if a.Monitor == nil {
			return errors.New("monitoring needs a language model; set GEMINI_API_KEY or ANTHROPIC_API_KEY")
		}

		rep, err := a.Monitor.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(rep.Outcomes) == 0 {
			fmt.Fprintln(out, "\n  The watchlist is empty; nothing to monitor.")
			return nil
		}
		t := cli.Table{
			Title:   fmt.Sprintf("Monitor run: %d new alert(s)", rep.Created),
			Headers: []string{"Company", "Status", "Headline"},
		}
		for _, o := range rep.Outcomes {
			detail := o.NewsTitle
			if o.Error != "" {
				detail = o.Error
			}
			t.Rows = append(t.Rows, []string{o.Company, string(o.Status), truncate(detail, 48)})
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderTable(t))
		return nil
	},
}

func init() {
	monitorCmd.AddCommand(monitorRunCmd)
	rootCmd.AddCommand(monitorCmd)
}
