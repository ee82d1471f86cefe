package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"runway-agent/internal/agent"
	"runway-agent/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagMessage    string
	flagShowSteps  bool
	flagIterations int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the due-diligence assistant (interactive unless --message is given)",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Ask a single question and exit")
	chatCmd.Flags().BoolVar(&flagShowSteps, "steps", false, "Print every tool call")
	chatCmd.Flags().IntVar(&flagIterations, "max-iterations", agent.DefaultMaxIterations, "Cap on think/act cycles per question")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Agent == nil {
		return errors.New("chat needs a language model; set GEMINI_API_KEY or ANTHROPIC_API_KEY")
	}
	a.Agent.MaxIterations = flagIterations

	session := agent.NewSession(agent.DefaultMemoryTurns)
	out := cmd.OutOrStdout()
	ask := func(q string) error {
		ans, err := a.Agent.Ask(cmd.Context(), session, q)
		if err != nil {
			return err
		}
		if flagShowSteps {
			for i, s := range ans.Steps {
				fmt.Fprintf(out, "  step %d: %s(%s)\n", i+1, s.Action, s.ActionInput)
			}
		}
		fmt.Fprintf(out, "\n%s\n\n", ans.Output)
		return nil
	}

	if flagMessage != "" {
		return ask(flagMessage)
	}

	fmt.Fprintln(out, cli.RenderTitle("Due-diligence assistant"))
	fmt.Fprintln(out, "  Type a question, or \"exit\" to quit.")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		q := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(q) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := ask(q); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
}
