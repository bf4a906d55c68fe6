// Package composer is the bubbletea input component for agent queries. It
// wraps a textinput with the @mention composer: a suggestion dropdown under
// the input, a field selector badge, and recall of submitted queries.
package composer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mention "github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/tui/keymap"
	"github.com/grovetools/archive/tui/theme"
)

// SubmitMsg is emitted when the user sends a non-empty query.
type SubmitMsg struct {
	Submission mention.Submission
	// Raw is the input text as typed, mention included.
	Raw string
}

// Model is the composer input component.
type Model struct {
	Keys  keymap.ComposerKeyMap
	Theme *theme.Theme
	Width int

	// Passthrough is set by Update when the last key press was not consumed,
	// so the host can apply its own behavior (for example moving focus on tab).
	Passthrough bool

	input      textinput.Model
	composer   *mention.Composer
	state      mention.State
	categories map[string]config.CategoryConfig

	// dismissed hides the dropdown until the text is edited again.
	dismissed bool

	history    []string
	historyPos int
	draft      string
}

// New creates a focused composer input bound to c.
func New(c *mention.Composer, keys keymap.ComposerKeyMap) Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 2000
	ti.Focus()

	return Model{
		Keys:     keys,
		Theme:    theme.DefaultTheme,
		input:    ti,
		composer: c,
		state:    c.Empty(),
	}
}

// SetComposer rebinds the component to a new composer, typically after a
// configuration reload. The current text is re-derived against the new catalog.
func (m *Model) SetComposer(c *mention.Composer) {
	m.composer = c
	m.state = c.Refresh(m.state)
	m.dismissed = false
}

// SetCategories supplies labels and colors for rendering.
func (m *Model) SetCategories(categories []config.CategoryConfig) {
	m.categories = make(map[string]config.CategoryConfig, len(categories))
	for _, cat := range categories {
		m.categories[strings.ToLower(cat.ID)] = cat
	}
}

// SetPlaceholder sets the placeholder shown on an empty input.
func (m *Model) SetPlaceholder(placeholder string) {
	m.input.Placeholder = placeholder
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(width int) {
	m.Width = width
	if width > 20 {
		m.input.Width = width - 20
	}
}

// SetHistory replaces the recall list, oldest first.
func (m *Model) SetHistory(history []string) {
	m.history = append([]string(nil), history...)
	m.historyPos = len(m.history)
	m.draft = ""
}

// History returns the submitted queries, oldest first.
func (m Model) History() []string {
	return append([]string(nil), m.history...)
}

// State returns the current composer state.
func (m Model) State() mention.State {
	return m.state
}

// Value returns the input text.
func (m Model) Value() string {
	return m.state.Text
}

// SetValue replaces the input text as if the user had typed it.
func (m *Model) SetValue(text string) {
	m.state = m.composer.OnTextChanged(m.state, text)
	m.dismissed = false
	m.syncInput()
}

// Selected returns the field selector value.
func (m Model) Selected() mention.Category {
	return m.state.Selected
}

// SetSelected sets the field selector. Unknown categories are ignored.
func (m *Model) SetSelected(cat mention.Category) {
	m.state = m.composer.SelectField(m.state, cat)
}

// Focus focuses the input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// SuggestionsVisible reports whether the dropdown is on screen.
func (m Model) SuggestionsVisible() bool {
	return !m.dismissed && m.composer.View(m.state).SuggestionsVisible
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and forwards everything else to the textinput.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.Passthrough = false
	if !m.input.Focused() {
		m.Passthrough = true
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Dismiss):
		if !m.SuggestionsVisible() {
			m.Passthrough = true
			return m, nil
		}
		m.dismissed = true
		return m, nil

	case key.Matches(keyMsg, m.Keys.Cycle):
		if m.dismissed {
			m.Passthrough = true
			return m, nil
		}
		next, consumed := m.composer.OnCycleKey(m.state)
		if !consumed {
			m.Passthrough = true
			return m, nil
		}
		m.state = next
		m.syncInput()
		return m, nil

	case key.Matches(keyMsg, m.Keys.Commit):
		if !m.dismissed {
			if next, consumed := m.composer.OnCommitKey(m.state); consumed {
				m.state = next
				m.syncInput()
				return m, nil
			}
		}
		return m, m.submit()

	case key.Matches(keyMsg, m.Keys.Field):
		m.state = m.composer.SelectField(m.state, m.nextField())
		return m, nil

	case key.Matches(keyMsg, m.Keys.HistoryPrev):
		if m.SuggestionsVisible() || !m.recall(-1) {
			m.Passthrough = true
		}
		return m, nil

	case key.Matches(keyMsg, m.Keys.HistoryNext):
		if m.SuggestionsVisible() || !m.recall(1) {
			m.Passthrough = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	if text := m.input.Value(); text != m.state.Text {
		m.state = m.composer.OnTextChanged(m.state, text)
		m.dismissed = false
		m.historyPos = len(m.history)
	}
	return m, cmd
}

// submit extracts the query and resets the input. Empty queries are dropped.
func (m *Model) submit() tea.Cmd {
	sub := m.composer.Extract(m.state)
	if sub.Empty() {
		return nil
	}

	raw := strings.TrimSpace(m.state.Text)
	if n := len(m.history); n == 0 || m.history[n-1] != raw {
		m.history = append(m.history, raw)
	}
	m.historyPos = len(m.history)
	m.draft = ""

	m.state = m.composer.Reset(m.state)
	m.dismissed = false
	m.syncInput()

	return func() tea.Msg {
		return SubmitMsg{Submission: sub, Raw: raw}
	}
}

// recall moves through history by delta, restoring the unsent draft past the
// newest entry. It reports whether the text changed.
func (m *Model) recall(delta int) bool {
	pos := m.historyPos + delta
	if pos < 0 || pos > len(m.history) || len(m.history) == 0 {
		return false
	}
	if m.historyPos == len(m.history) {
		m.draft = m.state.Text
	}
	m.historyPos = pos

	text := m.draft
	if pos < len(m.history) {
		text = m.history[pos]
	}
	m.state = mention.State{Text: text, Selected: m.state.Selected}
	m.dismissed = false
	m.syncInput()
	return true
}

// nextField rotates the selector through "all fields" followed by the catalog.
func (m Model) nextField() mention.Category {
	options := append([]mention.Category{""}, m.composer.Catalog().All()...)
	for i, cat := range options {
		if cat == m.state.Selected {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

// syncInput writes a programmatic rewrite into the textinput without
// re-deriving the composer state.
func (m *Model) syncInput() {
	m.input.SetValue(m.state.Text)
	m.input.CursorEnd()
}

// View renders the input line, the field badge and the suggestion dropdown.
func (m Model) View() string {
	t := m.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), "  ", m.fieldBadge(t))
	rows := []string{line}

	if !m.dismissed {
		v := m.composer.View(m.state)
		switch v.Phase {
		case mention.Suggesting:
			rows = append(rows, m.renderDropdown(t, v))
		case mention.SuggestingEmpty:
			rows = append(rows, t.Muted.Render("  no matching field"))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) fieldBadge(t *theme.Theme) string {
	if m.state.Selected == "" {
		return t.Muted.Render(theme.IconField + " All fields")
	}
	id := string(m.state.Selected)
	return t.Muted.Render(theme.IconField+" ") + t.CategoryStyle(id, m.categories[id].Color).Render("@"+id)
}

func (m Model) renderDropdown(t *theme.Theme, v mention.View) string {
	var lines []string
	for i, cat := range v.Suggestions {
		id := string(cat)
		cfg := m.categories[id]
		label := t.CategoryStyle(id, cfg.Color).Render("@" + id)
		if cfg.Label != "" && !strings.EqualFold(cfg.Label, id) {
			label += " " + t.Muted.Render(cfg.Label)
		}
		if i == v.Highlight {
			lines = append(lines, t.SuggestionSelected.Render(theme.IconArrow+" ")+label)
		} else {
			lines = append(lines, t.Suggestion.Render("  ")+label)
		}
	}
	return t.Dropdown.Render(strings.Join(lines, "\n"))
}
