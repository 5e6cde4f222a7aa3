package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-scheduler/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

var migrateCommands = []struct {
	name  string
	short string
}{
	{sqlstore.MigrateUp, "Apply all pending migrations"},
	{sqlstore.MigrateDown, "Roll back the most recent migration"},
	{sqlstore.MigrateStatus, "Print the status of every migration"},
	{sqlstore.MigrateVersion, "Print the current schema version"},
	{sqlstore.MigrateReset, "Roll back all migrations"},
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	for _, mc := range migrateCommands {
		name := mc.name
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: mc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return handleMigrations(cmd, name)
			},
		})
	}
	return cmd
}

// handleMigrations connects with the configured database and runs one
// goose command against it.
func handleMigrations(cmd *cobra.Command, command string) error {
	cfg, logger, err := initializeApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return applyMigrations(ctx, db, cfg.Database.Driver, command, logger)
}

func applyMigrations(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	logger.Info("Executing migrations", "command", command, "driver", driver)

	if err := sqlstore.Migrate(ctx, db, driver, command, logger); err != nil {
		return err
	}

	logger.Info("Migrations completed", "command", command)
	return nil
}
