package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/testutil"
)

type harness struct {
	gw     *testutil.FakeGateway
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	testutil.IsolateEnv(t)

	gw := testutil.NewFakeGateway(t)
	path := testutil.WriteConfig(t, t.TempDir(), fmt.Sprintf(`
api:
  base_url: %s
  cache_ttl: "0"
categories:
  - id: personal
  - id: work
    color: "#f472b6"
  - id: learning
`, gw.BaseURL()))
	return &harness{gw: gw, config: path}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.config}, args...))
	err := root.Execute()
	return ansi.Strip(out.String()), err
}

func (h *harness) runJSON(t *testing.T, out interface{}, args ...string) {
	t.Helper()
	stdout, err := h.run(t, append(args, "--json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), out), stdout)
}

func TestAskWithMention(t *testing.T) {
	h := newHarness(t)

	var res askResult
	h.runJSON(t, &res, "ask", "@work", "what", "did", "I", "save?")

	assert.Equal(t, "what did I save?", res.Query)
	assert.Equal(t, "work", res.Field)
	assert.True(t, res.FromMention)
	require.NotNil(t, res.Response)
	assert.Contains(t, res.Response.Response, "in work")
}

func TestAskFieldFallback(t *testing.T) {
	h := newHarness(t)

	var res askResult
	h.runJSON(t, &res, "ask", "--field", "learning", "recent", "notes")
	assert.Equal(t, "learning", res.Field)
	assert.False(t, res.FromMention)

	h.runJSON(t, &res, "ask", "--field", "learning", "@work", "standup")
	assert.Equal(t, "work", res.Field, "a mention overrides the selector")
}

func TestAskPlainOutput(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "ask", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "all fields")
	assert.Contains(t, out, "hello")
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "ask", "@work")
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyQuery))
	assert.Zero(t, h.gw.CountRequests("POST", "/api/v1/query"))
}

func TestAskUnknownField(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "ask", "--field", "nope", "hi")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "@personal")
	assert.Contains(t, out, "@learning")

	var ids []string
	h.runJSON(t, &ids, "categories", "@")
	assert.Equal(t, []string{"personal", "work", "learning"}, ids)

	h.runJSON(t, &ids, "categories", "WO")
	assert.Equal(t, []string{"work"}, ids)

	out, err = h.run(t, "categories", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "no matching field")
}

func TestItemsList(t *testing.T) {
	h := newHarness(t)
	h.gw.AddItem(models.Item{ID: "a1", Field: "work", Title: "Hiring plan", Content: "roles"})
	h.gw.AddItem(models.Item{ID: "b2", Field: "work", Title: "Offsite", Content: "ramen dinner"})
	h.gw.AddItem(models.Item{ID: "c3", Field: "personal", Title: "Ramen spot"})

	var list models.ItemList
	h.runJSON(t, &list, "items", "list", "--field", "work")
	assert.Len(t, list.Items, 2)

	h.runJSON(t, &list, "items", "list", "--search", "ramen")
	require.Len(t, list.Items, 2)
	assert.Equal(t, "b2", list.Items[0].ID)
	assert.Equal(t, "c3", list.Items[1].ID)

	out, err := h.run(t, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hiring plan")
	assert.Contains(t, out, "Showing 3 of 3")
}

func TestItemsAddText(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "items", "add", "text",
		"--field", "@Work", "--title", "Notes", "--content", "ship it",
		"--tags", "coding,career", "--lat", "45.1", "--lon", "9.2")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived Notes")

	items := h.gw.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "work", items[0].Field)
	assert.Equal(t, []string{"coding", "career"}, items[0].Tags)
	require.True(t, items[0].Location.HasCoordinates())
	assert.InDelta(t, 45.1, *items[0].Location.Latitude, 1e-9)
}

func TestItemsAddLink(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "items", "add", "link", "--field", "personal", "--title", "Reel", "--url", "https://instagram.com/p/abc")
	require.NoError(t, err)

	items := h.gw.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentInstagram, items[0].ContentType)
	assert.Equal(t, "https://instagram.com/p/abc", items[0].FileURL)
}

func TestItemsAddFile(t *testing.T) {
	h := newHarness(t)
	path := testutil.WriteFile(t, t.TempDir(), "plan.txt", "q3")

	_, err := h.run(t, "items", "add", "file", "--field", "work", "--path", path, "--tags", "planning")
	require.NoError(t, err)

	items := h.gw.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "plan.txt", items[0].Title)
	assert.Equal(t, "plan.txt", items[0].FileName)
	assert.Equal(t, []string{"planning"}, items[0].Tags)
}

func TestItemsEditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.gw.AddItem(models.Item{ID: "a1", Field: "work", Title: "Old"})

	_, err := h.run(t, "items", "edit", "a1")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	var item models.Item
	h.runJSON(t, &item, "items", "edit", "a1", "--title", "New", "--field", "learning")
	assert.Equal(t, "New", item.Title)
	assert.Equal(t, "learning", item.Field)

	_, err = h.run(t, "items", "edit", "missing", "--title", "x")
	assert.True(t, errors.Is(err, errors.ErrCodeItemNotFound))

	out, err := h.run(t, "items", "delete", "a1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted a1")
	assert.Empty(t, h.gw.Items())
}

func TestMap(t *testing.T) {
	h := newHarness(t)
	lat1, lon1, lat2, lon2 := 45.0, 9.0, 47.0, 11.0
	h.gw.AddItem(models.Item{Field: "personal", Title: "Duomo", Tags: []string{"travel"}, Location: &models.Location{Latitude: &lat1, Longitude: &lon1}})
	h.gw.AddItem(models.Item{Field: "work", Title: "Office", Location: &models.Location{Latitude: &lat2, Longitude: &lon2}})
	h.gw.AddItem(models.Item{Field: "work", Title: "No place"})

	var res mapResult
	h.runJSON(t, &res, "map")
	assert.Equal(t, 2, res.Total)
	assert.InDelta(t, 46.0, res.CenterLatitude, 1e-9)
	assert.InDelta(t, 10.0, res.CenterLongitude, 1e-9)

	h.runJSON(t, &res, "map", "--field", "learning")
	assert.Zero(t, res.Total)
	assert.InDelta(t, 45.4642, res.CenterLatitude, 1e-9, "falls back to the configured centre")

	out, err := h.run(t, "map", "--tags", "travel")
	require.NoError(t, err)
	assert.Contains(t, out, "Duomo")
	assert.NotContains(t, out, "Office")
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	var health models.Health
	h.runJSON(t, &health, "health")
	assert.True(t, health.Healthy())
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "Archive Configuration")

	out, err = h.run(t, "config", "validate", h.config)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (3 fields)")

	bad := testutil.WriteFile(t, t.TempDir(), "archive.yml", "categories:\n  - id: a\n  - id: A\n")
	_, err = h.run(t, "config", "validate", bad)
	assert.Error(t, err)

	clash := testutil.WriteFile(t, t.TempDir(), "archive.yml", "tui:\n  keybindings:\n    clear: [esc]\n")
	_, err = h.run(t, "config", "validate", clash)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
	assert.Contains(t, err.Error(), "key 'esc' is bound to both")

	out, err = h.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: "+h.gw.BaseURL())
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "archive")
}
