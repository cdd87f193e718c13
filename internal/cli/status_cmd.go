package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Store.Load()
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimerStatus("", time.Time{}, 0, false))
				return nil
			}
			key, since, ok := rec.Active()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimerStatus(key, since, app.now().Sub(since), ok))
			return nil
		},
	}
}
