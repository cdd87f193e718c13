package cli

import (
	"strings"

	"github.com/alexanderramin/jiratrack/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Backspace key.Binding
	Activate  key.Binding
	Submit    key.Binding
	Discard   key.Binding
	Copy      key.Binding
	Assign    key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Activate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit worklog")),
		Discard:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "cancel worklog")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy summary")),
		Assign:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "assign to me")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// instructions renders the key hint bar.
func (k keyMap) instructions() string {
	bindings := []key.Binding{k.Up, k.Down, k.Activate, k.Submit, k.Discard, k.Copy, k.Assign, k.Refresh, k.Quit}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, formatter.StyleBlue.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(hints, "  ")
}
