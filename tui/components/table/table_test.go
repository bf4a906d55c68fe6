package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTable(t *testing.T) {
	out := SimpleTable([]string{"ID", "Title"}, [][]string{{"a1", "Trattoria"}, {"b2", "Standup notes"}})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Trattoria")
	assert.Contains(t, out, "Standup notes")
	assert.Contains(t, out, "╭")
}

func TestBorderless(t *testing.T) {
	opts := DefaultOptions()
	opts.Bordered = false
	out := New([]string{"ID"}, [][]string{{"a1"}}, opts).String()
	assert.NotContains(t, out, "╭")
	assert.Contains(t, out, "a1")
}

func TestSelectableTable(t *testing.T) {
	out := SelectableTable([]string{"ID"}, [][]string{{"a1"}, {"b2"}}, 1)
	assert.Contains(t, out, "b2")
}
