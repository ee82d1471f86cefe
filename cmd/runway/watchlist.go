package main

import (
	"fmt"
	"strings"

	"runway-agent/internal/cli"

	"github.com/spf13/cobra"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the companies the monitor watches",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		names, err := st.Watchlist(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "\n  The watchlist is empty.")
			return nil
		}
		t := cli.Table{Title: "Watchlist", Headers: []string{"#", "Company"}}
		for i, n := range names {
			t.Rows = append(t.Rows, []string{fmt.Sprint(i + 1), n})
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderTable(t))
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <company>",
	Short: "Start watching a company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		name := strings.Join(args, " ")
		added, err := st.AddToWatchlist(cmd.Context(), name)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the watchlist.\n", name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already on the watchlist.\n", name)
		}
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:     "remove <company>",
	Aliases: []string{"rm"},
	Short:   "Stop watching a company",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		name := strings.Join(args, " ")
		if err := st.RemoveFromWatchlist(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the watchlist.\n", name)
		return nil
	},
}

func init() {
	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd)
	rootCmd.AddCommand(watchlistCmd)
}
