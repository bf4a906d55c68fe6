package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/archive/tui/theme"
)

// Options configures a styled table.
type Options struct {
	Bordered bool
	// Selected highlights a data row; -1 disables selection.
	Selected int
	// Width fixes the table width when positive.
	Width int
	Theme *theme.Theme
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		Bordered: true,
		Selected: -1,
		Theme:    theme.DefaultTheme,
	}
}

// New builds a lipgloss table with the archive styling.
func New(headers []string, rows [][]string, opts Options) *ltable.Table {
	t := opts.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	table := ltable.New().Headers(headers...).Rows(rows...)
	if opts.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border))
	} else {
		table = table.Border(lipgloss.HiddenBorder())
	}
	if opts.Width > 0 {
		table = table.Width(opts.Width)
	}

	selected := opts.Selected
	return table.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == ltable.HeaderRow:
			return t.TableHeader.Padding(0, 1)
		case row == selected:
			return t.SelectedRow.Padding(0, 1)
		default:
			return lipgloss.NewStyle().Padding(0, 1)
		}
	})
}

// SimpleTable renders a bordered table.
func SimpleTable(headers []string, rows [][]string) string {
	return New(headers, rows, DefaultOptions()).String()
}

// SelectableTable renders a table with the selected data row highlighted.
func SelectableTable(headers []string, rows [][]string, selectedIndex int) string {
	opts := DefaultOptions()
	opts.Selected = selectedIndex
	return New(headers, rows, opts).String()
}
