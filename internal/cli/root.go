package cli

import (
	"errors"
	"time"

	"github.com/alexanderramin/jiratrack/internal/config"
	"github.com/alexanderramin/jiratrack/internal/service"
	"github.com/alexanderramin/jiratrack/internal/session"
	"github.com/alexanderramin/jiratrack/internal/statestore"
	"github.com/alexanderramin/jiratrack/internal/tracker"
	"github.com/spf13/cobra"
)

// App holds the collaborators used by CLI commands. Everything except
// ConfigPath and Wire is filled in by Wire before a command runs.
type App struct {
	Config    config.Config
	Tracker   tracker.Client
	Store     statestore.Store
	Journal   service.JournalService
	Clipboard service.Clipboard
	Clock     session.Clock
	Observer  service.UseCaseObserver

	ConfigPath string

	// Wire loads configuration and builds the collaborators. It is skipped
	// for commands that must work without a config file.
	Wire func(app *App) error

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

func (a *App) controller() *service.Controller {
	return service.NewController(service.ControllerDeps{
		Tracker:   a.Tracker,
		Store:     a.Store,
		Journal:   a.Journal,
		Clipboard: a.Clipboard,
		Clock:     a.Clock,
		Project:   a.Config.Project,
	}, a.Observer)
}

func (a *App) requireJournal() (service.JournalService, error) {
	if a.Journal == nil {
		return nil, errors.New("worklog journal is not configured")
	}
	return a.Journal, nil
}

// skipWire marks commands that run before a config file exists.
const skipWire = "skip-wire"

// NewRootCmd creates the top-level "jiratrack" command. Without a
// subcommand it opens the interactive tracker.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "jiratrack",
		Short:         "Track time on your sprint's Jira issues",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipWire] == "true" || app.Wire == nil {
				return nil
			}
			return app.Wire(app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	root.AddCommand(
		newIssuesCmd(app),
		newShowCmd(app),
		newAssignCmd(app),
		newStatusCmd(app),
		newWorklogCmd(app),
		newInitCmd(app),
	)

	return root
}
