package scrollbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func lines(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = "line"
	}
	return strings.Join(out, "\n")
}

func TestGenerateFits(t *testing.T) {
	vp := viewport.New(10, 5)
	vp.SetContent(lines(3))

	assert.Equal(t, []string{" ", " ", " ", " ", " "}, Generate(&vp, 5))
	assert.Nil(t, Generate(&vp, 0))
}

func TestGenerateThumbFollowsScroll(t *testing.T) {
	vp := viewport.New(10, 4)
	vp.SetContent(lines(40))

	top := Generate(&vp, 4)
	assert.Equal(t, "█", ansi.Strip(top[0]))
	assert.Equal(t, "░", ansi.Strip(top[3]))

	vp.GotoBottom()
	bottom := Generate(&vp, 4)
	assert.Equal(t, "░", ansi.Strip(bottom[0]))
	assert.Equal(t, "█", ansi.Strip(bottom[3]))
}

func TestOverlay(t *testing.T) {
	vp := viewport.New(10, 3)
	vp.SetContent(lines(10))

	out := strings.Split(ansi.Strip(Overlay(&vp)), "\n")
	assert.Len(t, out, 3)
	assert.True(t, strings.HasSuffix(out[0], "█"))
}
