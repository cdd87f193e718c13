package cli

import (
	"fmt"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWorklogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worklog",
		Short: "Inspect the local worklog journal",
	}

	cmd.AddCommand(
		newWorklogListCmd(app),
		newWorklogSummaryCmd(app),
	)

	return cmd
}

func newWorklogListCmd(app *App) *cobra.Command {
	var days int
	var issueKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submitted and failed worklogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := app.requireJournal()
			if err != nil {
				return err
			}
			entries, err := journal.ListRecent(cmd.Context(), days, issueKey)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorklogList(entries, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Look back this many days (0 for all)")
	cmd.Flags().StringVar(&issueKey, "issue", "", "Only show worklogs for this issue key")

	return cmd
}

func newWorklogSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total logged time per issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := app.requireJournal()
			if err != nil {
				return err
			}
			totals, err := journal.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueTotals(totals))
			return nil
		},
	}
}
