package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/jiratrack/internal/cli"
	"github.com/alexanderramin/jiratrack/internal/clipboard"
	"github.com/alexanderramin/jiratrack/internal/config"
	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/repository"
	"github.com/alexanderramin/jiratrack/internal/service"
	"github.com/alexanderramin/jiratrack/internal/statestore"
	"github.com/alexanderramin/jiratrack/internal/tracker"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, tracker.ErrAuth) {
			fmt.Fprintln(os.Stderr, "Check user_email and user_api_token, or run `jiratrack init`.")
		}
		os.Exit(1)
	}
}

func run() error {
	configPath, err := config.DefaultPath()
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	app := &cli.App{
		ConfigPath: configPath,
		Clipboard:  clipboard.System{},
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Wire = func(app *cli.App) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		if err := cfg.ResolvePaths(); err != nil {
			return err
		}
		app.Config = cfg

		// Logs never go to the terminal the TUI draws on.
		var trackerObserver tracker.Observer = tracker.NoopObserver{}
		if cfg.LogCalls {
			logFile, err := openLog(filepath.Dir(cfg.StatePath))
			if err != nil {
				return err
			}
			closers = append(closers, logFile)
			trackerObserver = tracker.NewLogObserver(logFile)
			app.Observer = service.NewLogUseCaseObserver(logFile)
		}

		database, err := db.OpenDB(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("opening worklog journal: %w", err)
		}
		closers = append(closers, database)

		app.Tracker = tracker.NewJiraClient(tracker.JiraConfig{
			BaseURL:  cfg.AtlassianURL,
			Email:    cfg.UserEmail,
			APIToken: cfg.UserAPIToken,
			Timeout:  cfg.Timeout(),
		}, trackerObserver)
		app.Store = statestore.NewFileStore(cfg.StatePath)
		app.Journal = service.NewJournalService(
			repository.NewSQLiteWorklogRepo(database),
			repository.NewSQLiteIssueTotalRepo(database),
			db.NewSQLiteUnitOfWork(database),
			app.Observer,
		)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}

func openLog(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "jiratrack.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
