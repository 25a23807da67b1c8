package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agency-admin-api/internal/app"
	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

// rootCmd is the admin console's maintenance CLI
var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Maintain the agency admin record store",
	Long: `Maintenance commands for the agency admin console.

Configuration is read from the same environment variables as the server.

Available subcommands:
  migrate - Apply or roll back the remote store schema
  seed    - Fill empty collections with the bundled catalog
  list    - Print the records of a collection
  delete  - Delete one record after confirmation
  export  - Stream a collection as ndjson, json or csv
  import  - Load an NDJSON backup into a collection
  draft   - Generate blog or job content from a title`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		log = logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, listCmd, deleteCmd, exportCmd, importCmd, draftCmd)
}

// withApp opens the configured store for the duration of fn
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
