package main

import (
	"fmt"
	"strings"

	"github.com/agency-admin-api/internal/app"
	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/view"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft <blog|job> <title>",
	Short: "Generate Markdown content for a blog post or job listing",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := draft.Kind(args[0])
		if _, ok := draft.Instruction(kind); !ok {
			return fmt.Errorf("%w: %s", draft.ErrUnknownKind, args[0])
		}
		title := strings.TrimSpace(strings.Join(args[1:], " "))
		if title == "" {
			return fmt.Errorf("%w: %s", view.ErrTitleRequired, view.TitleRequiredMessage)
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			res := a.Assistant.Draft(cmd.Context(), title, kind)
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			if res.Failed {
				return fmt.Errorf("draft generation failed")
			}
			return nil
		})
	},
}
