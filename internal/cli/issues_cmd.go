package cli

import (
	"fmt"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/alexanderramin/jiratrack/internal/search"
	"github.com/spf13/cobra"
)

func newIssuesCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List open issues in the project's active sprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := app.Tracker.SearchOpenSprintIssues(cmd.Context(), app.Config.Project)
			if err != nil {
				return fmt.Errorf("loading sprint issues: %w", err)
			}
			issues = search.Rank(issues, query)

			activeKey := ""
			if rec, err := app.Store.Load(); err == nil && rec != nil {
				activeKey, _, _ = rec.Active()
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueTable(issues, -1, activeKey, 60))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Fuzzy filter on issue titles")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Show a single issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, err := app.Tracker.GetIssue(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching %s: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueDetail(issue))
			return nil
		},
	}
}

func newAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign KEY",
		Short: "Assign an issue to yourself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tracker.AssignToCurrentUser(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("assigning %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", formatter.Bold(args[0]), app.Config.UserEmail)
			return nil
		},
	}
}
