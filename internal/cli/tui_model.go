package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/alexanderramin/jiratrack/internal/service"
	"github.com/alexanderramin/jiratrack/internal/tracker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// tickMsg redraws the elapsed timer. It never changes session state.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Rows used by everything except the issue table: two boxed panels, the
// table header, the status line and the instruction bar.
const chromeHeight = 13

// tuiModel renders the controller's view and turns key presses into
// controller commands.
type tuiModel struct {
	ctx     context.Context
	ctrl    *service.Controller
	keys    keyMap
	project string
	width   int
	height  int

	// fatal is set when the tracker rejects our credentials.
	fatal error
}

func newTUIModel(ctx context.Context, ctrl *service.Controller, project string) tuiModel {
	return tuiModel{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    defaultKeyMap(),
		project: project,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		for _, cmd := range m.commands(msg) {
			err := m.ctrl.Handle(m.ctx, cmd)
			if errors.Is(err, tracker.ErrAuth) {
				m.fatal = err
				return m, tea.Quit
			}
		}
		if m.ctrl.Quitting() {
			return m, tea.Quit
		}
	}
	return m, nil
}

// commands maps a key press to controller commands. Pasted text arrives as
// one message with several runes.
func (m tuiModel) commands(msg tea.KeyMsg) []service.Command {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []service.Command{service.Quit()}
	case key.Matches(msg, m.keys.Up):
		return []service.Command{service.MoveSelection(-1)}
	case key.Matches(msg, m.keys.Down):
		return []service.Command{service.MoveSelection(1)}
	case key.Matches(msg, m.keys.Backspace):
		return []service.Command{service.Backspace()}
	case key.Matches(msg, m.keys.Activate):
		return []service.Command{service.ActivateSelected()}
	case key.Matches(msg, m.keys.Submit):
		return []service.Command{service.SubmitWorklog()}
	case key.Matches(msg, m.keys.Discard):
		return []service.Command{service.DiscardActive()}
	case key.Matches(msg, m.keys.Copy):
		return []service.Command{service.CopyActiveSummary()}
	case key.Matches(msg, m.keys.Assign):
		return []service.Command{service.AssignSelected()}
	case key.Matches(msg, m.keys.Refresh):
		return []service.Command{service.Refresh()}
	}

	switch msg.Type {
	case tea.KeySpace:
		return []service.Command{service.AppendChar(' ')}
	case tea.KeyRunes:
		cmds := make([]service.Command, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			cmds = append(cmds, service.AppendChar(r))
		}
		return cmds
	}
	return nil
}

func (m tuiModel) View() string {
	v := m.ctrl.View()
	if v.Quitting || m.fatal != nil {
		return ""
	}

	var b strings.Builder

	title := formatter.StyleHeader.Render("jiratrack")
	if m.project != "" {
		title += formatter.Dim(" · " + m.project)
	}
	b.WriteString(title + "\n")

	var panel string
	if v.Active != nil {
		panel = formatter.FormatActivePanel(v.Active.Key, v.Active.Title, v.Active.Elapsed, true)
	} else {
		panel = formatter.FormatActivePanel("", "", 0, false)
	}
	b.WriteString(m.box("Current Issue", panel) + "\n")
	b.WriteString(m.box("Search", formatter.FormatSearchBox(v.Query)) + "\n")

	start, end := m.window(len(v.Issues), v.Cursor)
	activeKey := ""
	if v.Active != nil {
		activeKey = v.Active.Key
	}
	b.WriteString(formatter.FormatIssueTable(v.Issues[start:end], v.Cursor-start, activeKey, m.titleWidth()))
	if hidden := len(v.Issues) - (end - start); hidden > 0 {
		b.WriteString(formatter.Dim(fmt.Sprintf("   … %d more", hidden)) + "\n")
	}

	switch {
	case v.Err != nil:
		b.WriteString(formatter.StyleRed.Render("✖ "+v.Err.Error()) + "\n")
	case v.Notice != "":
		b.WriteString(formatter.StyleGreen.Render(v.Notice) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(m.keys.instructions())
	return b.String()
}

func (m tuiModel) box(title, content string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim)
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(formatter.StyleBold.Render(title) + "\n" + content)
}

// window returns the slice of rows that fits the terminal while keeping the
// cursor visible.
func (m tuiModel) window(n, cursor int) (int, int) {
	rows := m.height - chromeHeight
	if m.height == 0 || rows >= n {
		return 0, n
	}
	rows = max(rows, 1)
	start := max(cursor-rows+1, 0)
	return start, min(start+rows, n)
}

func (m tuiModel) titleWidth() int {
	if m.width == 0 {
		return 0
	}
	// marker, key, time spent and assignee columns plus gaps
	return max(m.width-56, 20)
}

func runTUI(cmd *cobra.Command, app *App) error {
	if app.IsInteractive != nil && !app.IsInteractive() {
		return errors.New("jiratrack needs an interactive terminal; use `jiratrack issues` or `jiratrack status` from scripts")
	}
	ctx := cmd.Context()

	ctrl := app.controller()
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Loading sprint issues...")
	err := ctrl.Start(ctx)
	stop()
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(
		newTUIModel(ctx, ctrl, app.Config.Project),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	if m, ok := final.(tuiModel); ok && m.fatal != nil {
		return m.fatal
	}
	return nil
}
