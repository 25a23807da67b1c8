package main

import (
	"fmt"
	"strconv"

	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd is the parent command for schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the remote store schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.DB) error {
			return db.RunMigrations(cfg.Database.MigrationsPath)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.DB) error {
			return db.MigrateDown(cfg.Database.MigrationsPath)
		})
	},
}

var migrateToCmd = &cobra.Command{
	Use:   "to <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withDatabase(func(db *database.DB) error {
			return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(version))
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateToCmd)
}

func withDatabase(fn func(db *database.DB) error) error {
	if cfg.Store.Backend != config.BackendRemote {
		return fmt.Errorf("migrations apply to the remote store only (STORE_BACKEND=%s)", cfg.Store.Backend)
	}
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
