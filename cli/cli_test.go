package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/archive/errors"
)

func TestNewStandardCommandFlags(t *testing.T) {
	cmd := NewStandardCommand("archive", "Personal archive client")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"--json", "-v", "--config", "/tmp/archive.yml"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.True(t, opts.JSONOutput)
	assert.True(t, opts.Verbose)
	assert.Equal(t, "/tmp/archive.yml", opts.ConfigFile)
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five six", 10)
	assert.Equal(t, "one two\nthree four\nfive six", wrapped)
	assert.Equal(t, "short\nlines", wrapText("short\nlines", 10))
}

func TestParseDescription(t *testing.T) {
	desc, examples := parseDescription("Ask the agent.\n\nExamples:\n  archive ask @work status")
	assert.Equal(t, "Ask the agent.", desc)
	assert.Equal(t, "archive ask @work status", examples)

	desc, examples = parseDescription("No examples here")
	assert.Equal(t, "No examples here", desc)
	assert.Empty(t, examples)
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("archive", "Personal archive client")
	child := &cobra.Command{Use: "ask [text...]", Short: "Ask the agent", RunE: func(*cobra.Command, []string) error { return nil }}
	child.Flags().String("field", "", "Fallback field")
	root.AddCommand(child)

	var buf bytes.Buffer
	renderHelp(&buf, root, 60)
	out := buf.String()
	assert.Contains(t, out, "ARCHIVE")
	assert.Contains(t, out, "COMMANDS")
	assert.Contains(t, out, "ask")
	assert.Contains(t, out, "--config")

	buf.Reset()
	renderHelp(&buf, child, 60)
	assert.Contains(t, buf.String(), "--field")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"item not found", errors.ItemNotFound("abc"), "Item 'abc' not found"},
		{"unreachable", errors.APIUnavailable("http://localhost:8000/api/v1/query", fmt.Errorf("refused")), "Cannot reach"},
		{"unauthorized", errors.APIStatus("/query", 401, ""), "ARCHIVE_API_TOKEN"},
		{"empty query", fmt.Errorf("ask: %w", errors.EmptyQuery()), "Nothing to ask"},
		{"invalid field", errors.InvalidInput("unknown field 'wrk'", nil).WithDetail("field", "wrk"), "Check the wrk value."},
		{"cancelled", errors.New(errors.ErrCodeCancelled, "cancelled"), "Cancelled"},
		{"plain", fmt.Errorf("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	_ = h.Handle(errors.ItemNotFound("xyz"))
	assert.Contains(t, buf.String(), `"ITEM_NOT_FOUND"`)
	assert.Nil(t, h.Handle(nil))
}
