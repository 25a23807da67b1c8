package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/agency-admin-api/internal/app"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/service"
	"github.com/agency-admin-api/internal/view"
	"github.com/spf13/cobra"
)

var (
	assumeYes    bool
	exportFormat string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill empty collections with the bundled catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			report, err := a.Seed(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(report))
			for name := range report {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created\n", name, report[name])
			}
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:       "list <resource>",
	Short:     "Print the records of a collection, newest first",
	Args:      cobra.ExactArgs(1),
	ValidArgs: models.ResourceNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			store, ok := a.Repos.ByResource(args[0])
			if !ok {
				return unknownResource(args[0])
			}
			records, err := store.Records(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, rec := range records {
				if err := enc.Encode(rec); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete one record after confirmation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			confirm := promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
			if assumeYes {
				confirm = func(string) bool { return true }
			}
			deleted, err := deleteRecord(cmd.Context(), a, args[0], args[1],
				view.WithConfirm(confirm),
				view.WithAlert(func(msg string) { fmt.Fprintln(cmd.ErrOrStderr(), msg) }),
				view.WithLogger(log),
			)
			if err != nil {
				return err
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Stream a collection to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			if _, ok := models.Resources[args[0]]; !ok {
				return unknownResource(args[0])
			}
			n, err := a.Services.Export.Stream(cmd.Context(), cmd.OutOrStdout(), args[0], exportFormat)
			if err != nil {
				return err
			}
			log.Info().Str("resource", args[0]).Int("count", n).Msg("Export finished")
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <resource> <file.ndjson>",
	Short: "Load an NDJSON backup into a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		return withApp(cmd.Context(), func(a *app.App) error {
			result, err := a.Services.Import.Import(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d failed\n", result.Resource, result.Created, result.Failed)
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s: %s\n", e.Line, e.Field, e.Message)
			}
			return nil
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", service.FormatNDJSON, "output format: ndjson, json or csv")
}

// deleteRecord runs the delete through the resource's page so the confirm and alert flow matches the console
func deleteRecord(ctx context.Context, a *app.App, resource, id string, opts ...view.Option) (bool, error) {
	switch resource {
	case "projects":
		return deleteVia(ctx, view.NewProjectsPage(a.Repos.Projects, opts...), id)
	case "blogs":
		return deleteVia(ctx, view.NewBlogsPage(a.Repos.Blogs, opts...), id)
	case "jobs":
		return deleteVia(ctx, view.NewJobsPage(a.Repos.Jobs, opts...), id)
	case "team":
		return deleteVia(ctx, view.NewTeamPage(a.Repos.Team, opts...), id)
	case "services":
		return deleteVia(ctx, view.NewServicesPage(a.Repos.Services, opts...), id)
	}
	return false, unknownResource(resource)
}

func deleteVia[T models.Record](ctx context.Context, page *view.Page[T], id string) (bool, error) {
	if err := page.Mount(ctx); err != nil {
		return false, err
	}
	return page.Delete(ctx, id)
}

func promptConfirm(in io.Reader, out io.Writer) func(prompt string) bool {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func unknownResource(name string) error {
	return fmt.Errorf("unknown resource %q, must be one of: %s", name, strings.Join(models.ResourceNames, ", "))
}
