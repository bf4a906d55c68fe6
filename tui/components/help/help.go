package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/archive/tui/keymap"
	"github.com/grovetools/archive/tui/theme"
)

// KeyMap is what the help component renders. Keymaps that also implement
// keymap.SectionedKeyMap get the boxed full view.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// Model represents an embeddable help component
type Model struct {
	Keys    KeyMap
	ShowAll bool
	Width   int
	Height  int
	Theme   *theme.Theme
	Title   string

	// Toggle opens and closes the full view. Esc always closes it.
	Toggle key.Binding

	viewport viewport.Model
}

// New creates a help model for keys, toggled by the toggle binding.
func New(keys KeyMap, toggle key.Binding) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false
	return Model{
		Keys:     keys,
		Theme:    theme.DefaultTheme,
		Toggle:   toggle,
		Title:    "Help",
		viewport: vp,
	}
}

// Update handles messages for the help component. While the full view is
// open it consumes key presses so they don't reach the underlying screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if m.ShowAll {
			m.setViewportContent()
		}

	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		if key.Matches(msg, m.Toggle) || msg.Type == tea.KeyEsc {
			m.ShowAll = false
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Open shows the full help view and resets its scroll position.
func (m *Model) Open() {
	m.ShowAll = true
	m.setViewportContent()
	m.viewport.GotoTop()
}

// Close returns to the short help line.
func (m *Model) Close() {
	m.ShowAll = false
}

// SetSize sets the dimensions of the help view
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
}

// SetKeys replaces the rendered keymap.
func (m *Model) SetKeys(keys KeyMap) {
	m.Keys = keys
	if m.ShowAll {
		m.setViewportContent()
	}
}

// View renders the help component
func (m Model) View() string {
	if m.Theme == nil {
		m.Theme = theme.DefaultTheme
	}
	if m.Keys == nil {
		return ""
	}

	if !m.ShowAll {
		return m.viewShort(m.Keys.ShortHelp())
	}

	content := m.viewport.View()
	if m.viewport.TotalLineCount() > m.viewport.Height {
		indicator := "↕ more"
		if m.viewport.AtTop() {
			indicator = "↓ more"
		} else if m.viewport.AtBottom() {
			indicator = "↑ more"
		}
		content = lipgloss.JoinVertical(lipgloss.Right, content,
			m.Theme.Muted.Align(lipgloss.Right).Width(m.viewport.Width).Render(indicator))
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}

// viewShort renders the compact, single-line help view.
func (m Model) viewShort(group []key.Binding) string {
	var pairs []string
	for _, binding := range group {
		if !binding.Enabled() {
			continue
		}
		h := binding.Help()
		if h.Key == "" || h.Desc == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %s", m.Theme.Highlight.Render(h.Key), m.Theme.Muted.Render(h.Desc)))
	}
	return strings.Join(pairs, m.Theme.Muted.Render(" • "))
}

func (m *Model) setViewportContent() {
	const verticalMargin = 4

	var sections []keymap.Section
	if sk, ok := m.Keys.(keymap.SectionedKeyMap); ok {
		sections = sk.Sections()
	} else if m.Keys != nil {
		for i, group := range m.Keys.FullHelp() {
			sections = append(sections, keymap.NewSection(fmt.Sprintf("Keys %d", i+1), group...))
		}
	}

	content := m.renderContent(sections)
	m.viewport.SetContent(content)
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = m.Height - verticalMargin - 1
}

// renderContent lays the section boxes out in two columns when a single
// column would not fit vertically.
func (m *Model) renderContent(sections []keymap.Section) string {
	var blocks []string
	for _, s := range sections {
		if block := m.renderSection(s); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Colors.Orange).MarginBottom(1)
	body := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if lipgloss.Height(body)+2 > m.Height-4 && len(blocks) > 1 {
		half := (len(blocks) + 1) / 2
		left := lipgloss.JoinVertical(lipgloss.Left, blocks[:half]...)
		right := lipgloss.JoinVertical(lipgloss.Left, blocks[half:]...)
		twoCol := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
		if lipgloss.Width(twoCol) <= m.Width-4 {
			body = twoCol
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, title.Width(lipgloss.Width(body)).Align(lipgloss.Center).Render(m.Title), body)
}

func (m *Model) renderSection(s keymap.Section) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Colors.Blue)

	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	rows := 0
	for _, b := range s.FilterEnabled() {
		h := b.Help()
		if h.Key == "" || h.Desc == "" {
			continue
		}
		table = table.Row(keyStyle.Render(h.Key), m.Theme.Muted.Render(h.Desc))
		rows++
	}
	if rows == 0 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.Colors.Orange).Bold(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Colors.Border).
		Padding(0, 1)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s %s", sectionIcon(s.Name), s.Name)),
		table.String()))
}

func sectionIcon(name string) string {
	switch name {
	case keymap.SectionComposer:
		return theme.IconField
	case keymap.SectionHistory, keymap.SectionNavigation:
		return theme.IconArrow
	case keymap.SectionStarters:
		return theme.IconAgent
	default:
		return theme.IconBullet
	}
}
