package agent

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/components/scrollbar"
	"github.com/grovetools/archive/tui/theme"
)

// chrome is the number of lines outside the transcript: header, divider,
// input, dropdown allowance and footer.
const chrome = 12

// View implements tea.Model.
func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}

	t := m.theme
	body := scrollbar.Overlay(&m.viewport)
	if !m.ready {
		body = m.renderTranscript()
	}

	status := ""
	if m.loading {
		status = m.spinner.View() + t.Muted.Render(" Thinking...")
	}

	sections := []string{
		m.renderHeader(),
		components.RenderDivider(m.width),
		body,
		status,
		m.input.View(),
		components.RenderFooter(m.help.View(), m.width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	t := m.theme
	header := components.RenderHeader(theme.IconAgent, m.cfg.Agent.Title, m.cfg.Agent.Subtitle)

	field := t.Muted.Render("All fields")
	if sel := string(m.input.Selected()); sel != "" {
		cat, _ := m.cfg.Category(sel)
		field = components.RenderBadge(sel, cat.Color)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(theme.IconField+" Field: ")+field)
}

func (m *Model) resize() {
	width := m.width
	height := m.height - chrome
	if height < 3 {
		height = 3
	}

	m.viewport.Width = width - 1
	m.viewport.Height = height
	m.ready = true
	m.input.SetWidth(width)
	m.help.SetSize(m.width, m.height)

	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap)); err == nil {
		m.renderer = r
	} else {
		m.logger.WithError(err).Warn("Failed to create markdown renderer")
	}
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	t := m.theme
	if len(m.messages) == 0 {
		return m.renderStarters()
	}

	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case RoleUser:
			sb.WriteString(t.MessageLabel.Render(theme.IconUser+" You") + "\n")
			sb.WriteString(t.UserMessage.Render(msg.Content))
			sb.WriteString("\n\n")
		default:
			sb.WriteString(t.MessageLabel.Render(theme.IconAgent+" Agent"))
			if msg.Field != "" {
				cat, _ := m.cfg.Category(msg.Field)
				sb.WriteString(" " + components.RenderBadge(msg.Field, cat.Color))
			}
			sb.WriteString("\n")
			if msg.Failed {
				sb.WriteString(t.Error.Render(theme.IconError+" "+msg.Content) + "\n\n")
				continue
			}
			sb.WriteString(m.renderMarkdown(msg.Content))
			if len(msg.Sources) > 0 {
				sb.WriteString(t.Muted.Render("Sources:") + "\n")
				for _, src := range msg.Sources {
					sb.WriteString(t.Muted.Render(fmt.Sprintf("  %s %s", theme.IconBullet, src.String())) + "\n")
				}
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderMarkdown renders content with glamour, falling back to plain text.
func (m Model) renderMarkdown(content string) (out string) {
	if m.renderer == nil {
		return m.theme.AssistantMessage.Render(content) + "\n"
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Warn("Markdown rendering panicked")
			out = m.theme.AssistantMessage.Render(content) + "\n"
		}
	}()

	rendered, err := m.renderer.Render(content)
	if err != nil {
		return m.theme.AssistantMessage.Render(content) + "\n"
	}
	return rendered
}

func (m Model) renderStarters() string {
	t := m.theme
	var lines []string
	lines = append(lines, t.Muted.Render("Start a conversation, or try one of these:"), "")
	for i, prompt := range m.cfg.Agent.StarterPrompts {
		if i >= len(m.keys.StarterPrompts) {
			break
		}
		combo := m.keys.StarterPrompts[i].Help().Key
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			t.Highlight.Render(combo),
			t.Bold.Render(prompt.Title),
			t.Muted.Render(prompt.Prompt)))
	}
	return strings.Join(lines, "\n")
}
