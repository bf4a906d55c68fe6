package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	out := ansi.Strip(RenderHeader("*", "AI Agent", "Ask questions"))
	assert.Contains(t, out, "* AI Agent")
	assert.Contains(t, out, "Ask questions")

	bare := ansi.Strip(RenderHeader("", "Items"))
	assert.Equal(t, "Items", strings.TrimSpace(bare))
}

func TestRenderDivider(t *testing.T) {
	assert.Empty(t, RenderDivider(0))
	assert.Equal(t, strings.Repeat("─", 5), ansi.Strip(RenderDivider(5)))
}

func TestRenderList(t *testing.T) {
	ordered := strings.Split(ansi.Strip(RenderList([]string{"a", "b"}, true)), "\n")
	assert.Equal(t, []string{" 1. a", " 2. b"}, ordered)
}

func TestRenderKeyValues(t *testing.T) {
	out := ansi.Strip(RenderKeyValues(
		[2]string{"ID", "42"},
		[2]string{"Field", "work"},
		[2]string{"Location", ""},
	))
	assert.Equal(t, "ID:    42\nField: work", out)
}

func TestRenderBadge(t *testing.T) {
	assert.Equal(t, "@work", ansi.Strip(RenderBadge("work", "#f472b6")))
	assert.Equal(t, "@custom", ansi.Strip(RenderBadge("custom", "")))
}

func TestRenderTabs(t *testing.T) {
	out := ansi.Strip(RenderTabs([]string{"Items", "Map"}, 1))
	assert.Contains(t, out, "Items")
	assert.Contains(t, out, "Map")
}
