// Package scrollbar draws a one-column scroll indicator beside a viewport.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/grovetools/archive/tui/theme"
)

const (
	thumb = "█"
	track = "░"
)

// Generate returns one scrollbar cell per line of height. Content that fits
// in the viewport gets a blank column.
func Generate(vp *viewport.Model, height int) []string {
	if height <= 0 {
		return nil
	}

	t := theme.DefaultTheme
	cells := make([]string, height)
	total := vp.TotalLineCount()
	if total <= vp.Height {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	size := height * vp.Height / total
	if size < 1 {
		size = 1
	}
	percent := vp.ScrollPercent()
	if percent < 0 {
		percent = 0
	} else if percent > 1 {
		percent = 1
	}
	start := int(float64(height-size)*percent + 0.5)

	for i := range cells {
		if i >= start && i < start+size {
			cells[i] = t.Muted.Render(thumb)
		} else {
			cells[i] = t.Muted.Render(track)
		}
	}
	return cells
}

// Overlay renders the viewport with the scrollbar appended to each line.
func Overlay(vp *viewport.Model) string {
	lines := strings.Split(vp.View(), "\n")
	cells := Generate(vp, len(lines))
	for i := range lines {
		lines[i] += cells[i]
	}
	return strings.Join(lines, "\n")
}
