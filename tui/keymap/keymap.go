package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/grovetools/archive/config"
)

// ComposerKeyMap holds the bindings the mention composer reacts to while
// the query input is focused.
type ComposerKeyMap struct {
	// Cycle moves to the next suggestion and writes it into the input.
	Cycle key.Binding `keymap:"cycle"`
	// Commit accepts the highlighted suggestion, or submits when none are shown.
	Commit      key.Binding `keymap:"commit"`
	Field       key.Binding `keymap:"field"`
	HistoryPrev key.Binding `keymap:"history_prev"`
	HistoryNext key.Binding `keymap:"history_next"`
	Dismiss     key.Binding `keymap:"dismiss"`
}

// NewComposerKeyMap returns the default composer bindings.
func NewComposerKeyMap() ComposerKeyMap {
	return ComposerKeyMap{
		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select / send"),
		),
		Field: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "pick field"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "previous query"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "next query"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// Sections groups the composer bindings for help rendering.
func (k ComposerKeyMap) Sections() []Section {
	return []Section{
		NewSection(SectionComposer, k.Cycle, k.Commit, k.Field, k.Dismiss),
		NewSection(SectionHistory, k.HistoryPrev, k.HistoryNext),
	}
}

// AgentKeyMap is the full keymap of the agent screen.
type AgentKeyMap struct {
	ComposerKeyMap

	ScrollUp   key.Binding `keymap:"scroll_up"`
	ScrollDown key.Binding `keymap:"scroll_down"`
	Clear      key.Binding `keymap:"clear"`
	Help       key.Binding `keymap:"help"`
	Quit       key.Binding `keymap:"quit"`

	// StarterPrompts trigger the configured starter prompts in order.
	// They are not overridable from config.
	StarterPrompts []key.Binding
}

// NewAgentKeyMap returns the default agent screen bindings with one
// starter prompt binding (alt+1, alt+2, ...) per prompt.
func NewAgentKeyMap(prompts []config.StarterPrompt) AgentKeyMap {
	km := AgentKeyMap{
		ComposerKeyMap: NewComposerKeyMap(),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear chat"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
	for i, prompt := range prompts {
		if i >= 9 {
			break
		}
		combo := "alt+" + string(rune('1'+i))
		km.StarterPrompts = append(km.StarterPrompts, key.NewBinding(
			key.WithKeys(combo),
			key.WithHelp(combo, prompt.Title),
		))
	}
	return km
}

// ShortHelp returns keybindings to be shown in the footer.
func (k AgentKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.Commit, k.Field, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k AgentKeyMap) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for _, s := range k.Sections() {
		columns = append(columns, s.Bindings)
	}
	return columns
}

// Sections returns all agent bindings grouped for help rendering.
func (k AgentKeyMap) Sections() []Section {
	sections := k.ComposerKeyMap.Sections()
	sections = append(sections,
		NewSection(SectionNavigation, k.ScrollUp, k.ScrollDown),
		NewSection(SectionActions, k.Clear),
	)
	if len(k.StarterPrompts) > 0 {
		sections = append(sections, NewSection(SectionStarters, k.StarterPrompts...))
	}
	return append(sections, NewSection(SectionSystem, k.Help, k.Quit))
}

// Load returns the agent keymap with the tui.keybindings overrides of cfg
// applied. Overrides naming no action or leaving one key on two actions are
// reported as a CONFIG_VALIDATION error alongside the rebound keymap.
func Load(cfg *config.Config) (AgentKeyMap, error) {
	km := NewAgentKeyMap(cfg.Agent.StarterPrompts)
	if cfg.TUI == nil {
		return km, nil
	}
	return km, ApplyOverrides(&km, cfg.TUI.Keybindings).Err()
}
