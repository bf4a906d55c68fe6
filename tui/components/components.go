package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/archive/tui/theme"
)

// RenderHeader renders a screen title with an icon and optional subtitle.
func RenderHeader(icon, title string, subtitle ...string) string {
	t := theme.DefaultTheme

	header := t.Header.Render(strings.TrimSpace(fmt.Sprintf("%s %s", icon, title)))
	if len(subtitle) > 0 && subtitle[0] != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(subtitle[0]))
	}
	return header
}

// RenderFooter creates a consistent footer for TUIs
func RenderFooter(content string, width int) string {
	t := theme.DefaultTheme
	return lipgloss.NewStyle().
		Foreground(t.Colors.MutedText).
		Width(width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Colors.Border).
		Render(content)
}

// RenderDivider creates a horizontal divider
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.DefaultTheme.Colors.Border).
		Render(strings.Repeat("─", width))
}

// RenderBox renders content in a rounded box with an optional title line.
func RenderBox(title, content string, width int) string {
	t := theme.DefaultTheme
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Colors.Border).
		Padding(0, 1)
	if width > 2 {
		box = box.Width(width - 2)
	}
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, t.Highlight.Render(title), content)
	}
	return box.Render(content)
}

// RenderList creates a styled list
func RenderList(items []string, ordered bool) string {
	t := theme.DefaultTheme

	var lines []string
	for i, item := range items {
		prefix := t.Highlight.Render(theme.IconBullet)
		if ordered {
			prefix = t.Highlight.Render(fmt.Sprintf("%2d.", i+1))
		}
		lines = append(lines, fmt.Sprintf("%s %s", prefix, item))
	}
	return strings.Join(lines, "\n")
}

// RenderKeyValue creates a key-value display
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", theme.DefaultTheme.Muted.Render(key+":"), value)
}

// RenderKeyValues renders aligned key-value rows in the given order, skipping
// empty values.
func RenderKeyValues(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		if p[1] != "" && len(p[0]) > width {
			width = len(p[0])
		}
	}

	var lines []string
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		label := p[0] + ":" + strings.Repeat(" ", width-len(p[0]))
		lines = append(lines, fmt.Sprintf("%s %s", theme.DefaultTheme.Muted.Render(label), p[1]))
	}
	return strings.Join(lines, "\n")
}

// RenderBadge renders a category badge such as "@work".
func RenderBadge(id, color string) string {
	return theme.DefaultTheme.CategoryStyle(id, color).Render("@" + id)
}

// RenderTabs creates a tab bar
func RenderTabs(tabs []string, activeIndex int) string {
	t := theme.DefaultTheme

	var rendered []string
	for i, tab := range tabs {
		style := lipgloss.NewStyle().
			Background(t.Colors.SubtleBackground).
			Foreground(t.Colors.MutedText).
			Padding(0, 2)
		if i == activeIndex {
			style = style.
				Background(t.Colors.SelectedBackground).
				Foreground(t.Colors.LightText).
				Bold(true)
		}
		rendered = append(rendered, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
