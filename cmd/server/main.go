// Package main implements the entry point for the scry-scheduler server,
// which schedules question reviews with SM-2 and reports review statistics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/scry-scheduler/internal/config"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/redact"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree: serve and migrate.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scry-scheduler",
		Short: "Spaced-repetition review scheduler",
		Long: `scry-scheduler applies SM-2 to quality-rated reviews, answers due-date
queries and aggregates review performance over HTTP.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to a config file (default: ./config.yaml if present)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	l.Debug("Database configuration", "url", redact.String(cfg.Database.URL))

	return cfg, l, nil
}
