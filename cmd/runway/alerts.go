package main

import (
	"fmt"
	"strconv"

	"runway-agent/internal/cli"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Review alerts raised by the watchlist monitor",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unread alerts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		alerts, err := st.UnreadAlerts(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(out, "\n  No unread alerts.")
			return nil
		}
		t := cli.Table{Title: "Unread alerts", Headers: []string{"ID", "Company", "Created", "Headline"}}
		for _, a := range alerts {
			t.Rows = append(t.Rows, []string{fmt.Sprint(a.ID), a.CompanyName, a.CreatedAt[:min(16, len(a.CreatedAt))], truncate(a.NewsTitle, 48)})
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderTable(t))
		for _, a := range alerts {
			fmt.Fprintf(out, "\n  [%d] %s\n      %s\n", a.ID, a.AlertText, a.SourceURL)
		}
		return nil
	},
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid alert id %q", args[0])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.MarkAlertRead(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alert %d marked as read.\n", id)
		return nil
	},
}

func init() {
	alertsCmd.AddCommand(alertsListCmd, alertsReadCmd)
	rootCmd.AddCommand(alertsCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
