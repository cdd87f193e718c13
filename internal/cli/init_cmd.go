package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/alexanderramin/jiratrack/internal/config"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// huhTheme returns the form theme matching the formatter palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateURL(s string) error {
	if err := required("URL")(s); err != nil {
		return err
	}
	if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://") {
		return errors.New("URL must start with https://")
	}
	return nil
}

func configForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Atlassian URL").
				Placeholder("https://your-team.atlassian.net").
				Value(&cfg.AtlassianURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Value(&cfg.UserEmail).
				Validate(required("email")),
			huh.NewInput().
				Title("API token").
				Description("Create one at id.atlassian.com → Security → API tokens").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.UserAPIToken).
				Validate(required("API token")),
			huh.NewInput().
				Title("Project key").
				Placeholder("IMG").
				Value(&cfg.Project).
				Validate(required("project")),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func newInitCmd(app *App) *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the jiratrack config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipWire: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			cfg, err := config.Load(path)
			if err != nil && !errors.Is(err, config.ErrNotFound) && !errors.Is(err, config.ErrIncomplete) {
				return err
			}
			mergeFlags(&cfg, flags)

			if cfg.Validate() != nil {
				if app.IsInteractive != nil && !app.IsInteractive() {
					return fmt.Errorf("missing settings; pass --url, --email, --token and --project: %w", cfg.Validate())
				}
				if err := configForm(&cfg).Run(); err != nil {
					return err
				}
			}
			cfg.AtlassianURL = strings.TrimRight(strings.TrimSpace(cfg.AtlassianURL), "/")
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.AtlassianURL, "url", "", "Atlassian site URL")
	cmd.Flags().StringVar(&flags.UserEmail, "email", "", "Atlassian account email")
	cmd.Flags().StringVar(&flags.UserAPIToken, "token", "", "Atlassian API token")
	cmd.Flags().StringVar(&flags.Project, "project", "", "Jira project key")

	return cmd
}

func mergeFlags(cfg *config.Config, flags config.Config) {
	if flags.AtlassianURL != "" {
		cfg.AtlassianURL = flags.AtlassianURL
	}
	if flags.UserEmail != "" {
		cfg.UserEmail = flags.UserEmail
	}
	if flags.UserAPIToken != "" {
		cfg.UserAPIToken = flags.UserAPIToken
	}
	if flags.Project != "" {
		cfg.Project = flags.Project
	}
}
