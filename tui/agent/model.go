// Package agent is the conversational agent screen: a scrolling transcript of
// questions and markdown answers above the @mention composer input.
package agent

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"

	mention "github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/state"
	composerui "github.com/grovetools/archive/tui/components/composer"
	"github.com/grovetools/archive/tui/components/help"
	"github.com/grovetools/archive/tui/keymap"
	"github.com/grovetools/archive/tui/theme"
)

// FailureText is shown in the transcript when a query fails.
const FailureText = "Failed to get response from agent"

// Querier sends a query to the agent endpoint.
type Querier interface {
	Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error)
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role     Role
	Content  string
	Field    string
	Sources  []models.Source
	Failed   bool
	Received time.Time
}

// ConfigReloadedMsg delivers a configuration reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type queryResultMsg struct {
	resp *models.QueryResponse
	err  error
}

// Options configures the agent screen.
type Options struct {
	// State persists the field selector and history. Nil disables persistence.
	State *state.State
	// StatePath overrides the state file location.
	StatePath string
	Logger    *logrus.Entry
}

// Model is the agent screen.
type Model struct {
	cfg     *config.Config
	client  Querier
	keys    keymap.AgentKeyMap
	logger  *logrus.Entry
	state   *state.State
	stPath  string
	theme   *theme.Theme

	input    composerui.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	renderer *glamour.TermRenderer

	messages []Message
	loading  bool
	ready    bool
	width    int
	height   int
}

// New builds the agent screen for cfg, sending queries through client.
func New(cfg *config.Config, client Querier, opts Options) (Model, error) {
	c, err := cfg.Composer()
	if err != nil {
		return Model{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("agent")
	}

	keys, err := keymap.Load(cfg)
	if err != nil {
		return Model{}, err
	}
	input := composerui.New(c, keys.ComposerKeyMap)
	input.SetCategories(cfg.Categories)
	input.SetPlaceholder(cfg.Agent.Placeholder)

	if opts.State != nil {
		input.SetHistory(opts.State.History)
		if opts.State.SelectedField != "" {
			input.SetSelected(mention.Category(opts.State.SelectedField))
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.DefaultTheme.Highlight

	h := help.New(keys, keys.Help)
	h.Title = "Agent Help"

	return Model{
		cfg:      cfg,
		client:   client,
		keys:     keys,
		logger:   logger,
		state:    opts.State,
		stPath:   opts.StatePath,
		theme:    theme.DefaultTheme,
		input:    input,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		help:     h,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.input.Init()
}

// Messages returns the transcript.
func (m Model) Messages() []Message {
	return append([]Message(nil), m.messages...)
}

// Loading reports whether a query is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Input returns the composer input component.
func (m Model) Input() composerui.Model {
	return m.input
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.help.ShowAll {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case composerui.SubmitMsg:
		return m.submit(msg)

	case queryResultMsg:
		m.loading = false
		focus := m.input.Focus()
		if msg.err != nil {
			m.logger.WithError(msg.err).Error("Agent query failed")
			m.messages = append(m.messages, Message{
				Role:     RoleAssistant,
				Content:  FailureText,
				Failed:   true,
				Received: time.Now(),
			})
		} else {
			m.messages = append(m.messages, Message{
				Role:     RoleAssistant,
				Content:  msg.resp.Response,
				Field:    msg.resp.Field,
				Sources:  msg.resp.Sources,
				Received: time.Now(),
			})
			m.logger.WithFields(logrus.Fields{
				"query_id": msg.resp.QueryID,
				"sources":  len(msg.resp.Sources),
				"agents":   msg.resp.AgentsConsulted,
			}).Debug("Agent replied")
		}
		m.refreshTranscript()
		return m, focus

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.persist()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Open()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.messages = nil
		m.refreshTranscript()
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.ViewDown()
		return m, nil
	}

	for i, binding := range m.keys.StarterPrompts {
		if key.Matches(msg, binding) && i < len(m.cfg.Agent.StarterPrompts) {
			m.input.SetValue(m.cfg.Agent.StarterPrompts[i].Prompt)
			return m, nil
		}
	}

	before := m.input.Selected()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Selected() != before {
		m.persist()
	}
	return m, cmd
}

// submit records the user message and starts the query. The input stays
// blurred until the reply arrives, so nothing can be submitted meanwhile.
func (m Model) submit(msg composerui.SubmitMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		m.logger.Debug("Ignoring submission while a query is in flight")
		return m, nil
	}

	m.messages = append(m.messages, Message{
		Role:     RoleUser,
		Content:  msg.Raw,
		Field:    string(msg.Submission.Category),
		Received: time.Now(),
	})
	m.loading = true
	m.input.Blur()
	m.refreshTranscript()

	if m.state != nil {
		m.state.PushHistory(msg.Raw, m.cfg.Agent.HistorySize)
	}
	m.persist()

	req := models.QueryRequest{
		Query: msg.Submission.Query,
		Field: string(msg.Submission.Category),
	}
	m.logger.WithFields(logrus.Fields{
		"field":        req.Field,
		"from_mention": msg.Submission.FromMention,
	}).Info("Sending agent query")

	return m, tea.Batch(m.spinner.Tick, m.runQuery(req))
}

func (m Model) runQuery(req models.QueryRequest) tea.Cmd {
	client, timeout := m.client, m.cfg.QueryTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Query(ctx, req)
		return queryResultMsg{resp: resp, err: err}
	}
}

// applyConfig rebinds the composer to a reloaded configuration. Invalid
// category sets or keybindings are logged and the previous configuration is
// kept.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	c, err := cfg.Composer()
	if err != nil {
		m.logger.WithError(err).Warn("Ignoring reloaded configuration")
		return
	}
	keys, err := keymap.Load(cfg)
	if err != nil {
		m.logger.WithError(err).Warn("Ignoring reloaded configuration")
		return
	}

	m.cfg = cfg
	m.input.SetComposer(c)
	m.input.SetCategories(cfg.Categories)
	m.input.SetPlaceholder(cfg.Agent.Placeholder)

	m.keys = keys
	m.input.Keys = keys.ComposerKeyMap
	m.help.SetKeys(keys)
	m.help.Toggle = keys.Help

	m.logger.WithField("categories", cfg.CategoryIDs()).Info("Configuration reloaded")
	m.refreshTranscript()
}

// persist writes the selector and history. Failures are logged only.
func (m *Model) persist() {
	if m.state == nil {
		return
	}
	m.state.SelectedField = string(m.input.Selected())

	var err error
	if m.stPath != "" {
		err = m.state.SaveTo(m.stPath)
	} else {
		err = m.state.Save()
	}
	if err != nil {
		m.logger.WithError(err).Warn("Failed to save agent state")
	}
}
