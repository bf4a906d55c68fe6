package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/archive/tui/theme"
)

// PrettyLogger writes styled, user-facing command output.
type PrettyLogger struct {
	writer io.Writer
	styles PrettyStyles
}

// PrettyStyles contains lipgloss styles for different message kinds.
type PrettyStyles struct {
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
}

// DefaultPrettyStyles derives the styles from the active theme.
func DefaultPrettyStyles() PrettyStyles {
	t := theme.DefaultTheme
	return PrettyStyles{
		Success: t.Success.Bold(true),
		Info:    t.Info,
		Warning: t.Warning,
		Error:   t.Error.Bold(true),
		Key:     t.Muted,
		Value:   t.Highlight,
	}
}

// NewPrettyLogger writes to stderr by default.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{
		writer: os.Stderr,
		styles: DefaultPrettyStyles(),
	}
}

// WithWriter sets a custom writer for pretty output
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

// Success prints a message with a checkmark.
func (p *PrettyLogger) Success(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.styles.Success.Render(theme.IconSuccess), p.styles.Success.Render(message))
}

// InfoPretty prints an informational message.
func (p *PrettyLogger) InfoPretty(message string) {
	fmt.Fprintln(p.writer, p.styles.Info.Render(message))
}

// WarnPretty prints a warning.
func (p *PrettyLogger) WarnPretty(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.styles.Warning.Render(theme.IconWarning), p.styles.Warning.Render(message))
}

// ErrorPretty prints an error with an optional cause.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	fmt.Fprintf(p.writer, "%s %s", p.styles.Error.Render(theme.IconError), p.styles.Error.Render(message))
	if err != nil {
		fmt.Fprintf(p.writer, ": %s", p.styles.Error.Render(err.Error()))
	}
	fmt.Fprintln(p.writer)
}

// Field prints a key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "%s: %s\n", p.styles.Key.Render(key), p.styles.Value.Render(fmt.Sprint(value)))
}
