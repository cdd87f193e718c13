package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoModel struct {
	keys  []string
	ticks int
}

func (m echoModel) Init() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return "tick" })
}

func (m echoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.keys = append(m.keys, msg.String())
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
	case string:
		m.ticks++
	}
	return m, nil
}

func (m echoModel) View() string { return "" }

func TestDriver_DropsTimers(t *testing.T) {
	d := New(t, echoModel{})
	d.DrainInit()

	assert.Zero(t, d.Model.(echoModel).ticks)
}

func TestDriver_KeysAndQuit(t *testing.T) {
	d := New(t, echoModel{})

	d.Type("a b")
	d.Press(tea.KeyCtrlS)
	d.PressEsc()
	d.PressKey('z')

	assert.True(t, d.Quitting)
	assert.Equal(t, []string{"a", " ", "b", "ctrl+s", "esc"}, d.Model.(echoModel).keys)
}
