package help

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/tui/keymap"
)

func TestShortView(t *testing.T) {
	km := keymap.NewAgentKeyMap(config.DefaultStarterPrompts)
	m := New(km, km.Help)

	view := m.View()
	assert.Contains(t, view, "next field")
	assert.Contains(t, view, "pick field")
	assert.NotContains(t, view, "Starter Prompts")
}

func TestToggleFullView(t *testing.T) {
	km := keymap.NewAgentKeyMap(config.DefaultStarterPrompts)
	m := New(km, km.Help)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 60})

	m.Open()
	assert.True(t, m.ShowAll)
	view := m.View()
	assert.Contains(t, view, "Composer")
	assert.Contains(t, view, "Find restaurants")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.False(t, m.ShowAll)

	m.Open()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.ShowAll)
}

func TestKeysIgnoredWhenClosed(t *testing.T) {
	km := keymap.NewAgentKeyMap(nil)
	m := New(km, km.Help)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Nil(t, cmd)
	assert.False(t, m.ShowAll)
}

type plainKeys struct{ b key.Binding }

func (p plainKeys) ShortHelp() []key.Binding  { return []key.Binding{p.b} }
func (p plainKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{p.b}} }

func TestFullHelpFallback(t *testing.T) {
	keys := plainKeys{b: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "explode"))}
	m := New(keys, key.NewBinding(key.WithKeys("?")))
	m.SetSize(80, 40)
	m.Open()
	assert.Contains(t, m.View(), "explode")
	assert.Contains(t, m.View(), "Keys 1")
}
