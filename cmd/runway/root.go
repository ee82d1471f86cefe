package main

import (
	"context"
	"fmt"
	"os"

	"runway-agent/internal/app"
	"runway-agent/internal/config"
	"runway-agent/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagEnvFile  string
	flagLogLevel string
	flagDBPath   string
)

var rootCmd = &cobra.Command{
	Use:           "runway",
	Short:         "Startup cash-runway forecasting and due-diligence assistant",
	Long:          "Forecast a startup's cash position, score its runway, watch companies for news and ask the research assistant.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default: $DB_PATH)")
}

func loadSettings() (*config.Settings, *logrus.Logger) {
	s := config.LoadSettings(flagEnvFile)
	if flagDBPath != "" {
		s.DBPath = flagDBPath
	}
	log := config.NewLogger(flagLogLevel)
	log.SetOutput(os.Stderr)
	return s, log
}

// openStore opens only the database, for commands that need no model.
func openStore() (*store.Store, error) {
	s, _ := loadSettings()
	return store.Open(s.DBPath)
}

func openApp(ctx context.Context) (*app.App, error) {
	s, log := loadSettings()
	return app.New(ctx, s, log)
}
