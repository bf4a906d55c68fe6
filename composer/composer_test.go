package composer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/archive/errors"
)

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := New(Config{Categories: DefaultCategories})
	require.NoError(t, err)
	return c
}

func typeText(c *Composer, s State, text string) State {
	return c.OnTextChanged(s, text)
}

func TestNew_DefaultsWhenEmpty(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCategories), c.Catalog().Len())
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"empty identifier", []string{"work", ""}},
		{"whitespace", []string{"deep work"}},
		{"at sign", []string{"w@rk"}},
		{"case-insensitive duplicate", []string{"Work", "work"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.ids)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
		})
	}

	_, err := NewCatalog(nil)
	assert.Error(t, err)
}

func TestNewCatalog_LowercasesAndKeepsOrder(t *testing.T) {
	catalog, err := NewCatalog([]string{"Travel", "food"})
	require.NoError(t, err)
	assert.Equal(t, []Category{"travel", "food"}, catalog.All())

	cat, ok := catalog.Lookup("TRAVEL")
	assert.True(t, ok)
	assert.Equal(t, Category("travel"), cat)
}

func TestOnTextChanged_NoAtIsIdle(t *testing.T) {
	c := newTestComposer(t)
	for _, text := range []string{"", "hello", "what have I learned?", "  spaced  ", "work finance"} {
		s := typeText(c, c.Empty(), text)
		assert.False(t, s.MentionActive, "text %q", text)
		assert.Empty(t, s.Suggestions, "text %q", text)
		assert.Equal(t, Idle, s.Phase(), "text %q", text)
	}
}

func TestOnTextChanged_PrefixMatching(t *testing.T) {
	c := newTestComposer(t)
	tests := []struct {
		text string
		want []Category
	}{
		{"@", []Category{"personal", "work", "inspiration", "learning", "health", "finance"}},
		{"@wo", []Category{"work"}},
		{"@WO", []Category{"work"}},
		{"find @fi", []Category{"finance"}},
		{"@in", []Category{"inspiration"}},
		{"email me@p", []Category{"personal"}},
		{"@xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := typeText(c, c.Empty(), tt.text)
			assert.True(t, s.MentionActive)
			assert.Equal(t, tt.want, s.Suggestions)
			assert.Equal(t, 0, s.Highlight)
			assert.Equal(t, tt.text[strings.LastIndex(tt.text, "@")+1:], s.Fragment)
		})
	}
}

func TestOnTextChanged_WhitespaceClosesMention(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "@xyz find stuff")
	assert.False(t, s.MentionActive)
	assert.Empty(t, s.Suggestions)
	assert.Equal(t, Idle, s.Phase())

	s = typeText(c, c.Empty(), "@wo\t")
	assert.False(t, s.MentionActive)
}

func TestOnTextChanged_Phases(t *testing.T) {
	c := newTestComposer(t)
	assert.Equal(t, Suggesting, typeText(c, c.Empty(), "@h").Phase())
	assert.Equal(t, SuggestingEmpty, typeText(c, c.Empty(), "@zzz").Phase())
	assert.Equal(t, Idle, typeText(c, c.Empty(), "@zzz ").Phase())
}

func TestOnTextChanged_ResetsHighlight(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "@")
	s, handled := c.OnCycleKey(s)
	require.True(t, handled)
	require.Equal(t, 1, s.Highlight)

	s = typeText(c, s, "@i")
	assert.Equal(t, 0, s.Highlight)
}

func TestOnCycleKey_SingleSuggestionAutoCommits(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "@wo")
	require.Equal(t, []Category{"work"}, s.Suggestions)

	s, handled := c.OnCycleKey(s)
	require.True(t, handled)
	assert.Equal(t, "@work ", s.Text)
	assert.Equal(t, Category("work"), s.Resolved)
	assert.False(t, s.MentionActive)
	assert.Equal(t, Idle, s.Phase())
}

func TestOnCycleKey_RotatesAndRewrites(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "show me @")
	suggestions := s.Suggestions

	s, handled := c.OnCycleKey(s)
	require.True(t, handled)
	assert.Equal(t, 1, s.Highlight)
	assert.Equal(t, "show me @work", s.Text)
	assert.True(t, s.MentionActive)
	assert.Equal(t, suggestions, s.Suggestions, "cycling keeps the suggestion list")
	assert.Equal(t, "work", s.Fragment)
}

func TestOnCycleKey_RotationClosure(t *testing.T) {
	c := newTestComposer(t)
	for _, text := range []string{"@", "@in", "x @"} {
		start := typeText(c, c.Empty(), text)
		n := len(start.Suggestions)
		if n < 2 {
			continue
		}
		s := start
		seen := map[int]bool{}
		for i := 0; i < n; i++ {
			var handled bool
			s, handled = c.OnCycleKey(s)
			require.True(t, handled)
			seen[s.Highlight] = true
		}
		assert.Equal(t, start.Highlight, s.Highlight, "text %q", text)
		assert.Len(t, seen, n, "every suggestion visited once per cycle")
	}
}

func TestOnCycleKey_NotConsumedOutsideSuggesting(t *testing.T) {
	c := newTestComposer(t)
	for _, text := range []string{"", "plain", "@zzz", "@work done"} {
		s := typeText(c, c.Empty(), text)
		next, handled := c.OnCycleKey(s)
		assert.False(t, handled, "text %q", text)
		assert.Equal(t, s, next)
	}
}

func TestOnCycleKey_DoesNotMutateInput(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "@")
	before := append([]Category(nil), s.Suggestions...)
	next, _ := c.OnCycleKey(s)
	next.Suggestions[0] = "tampered"
	assert.Equal(t, before, s.Suggestions)
	assert.Equal(t, "@", s.Text)
}

func TestOnCommitKey(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "notes @")
	s, _ = c.OnCycleKey(s)
	s, _ = c.OnCycleKey(s)
	require.Equal(t, Category("inspiration"), s.Suggestions[s.Highlight])

	s, handled := c.OnCommitKey(s)
	require.True(t, handled)
	assert.Equal(t, "notes @inspiration ", s.Text)
	assert.Equal(t, Category("inspiration"), s.Resolved)

	_, handled = c.OnCommitKey(typeText(c, c.Empty(), "submit me"))
	assert.False(t, handled, "enter falls through to submit without suggestions")

	_, handled = c.OnCommitKey(typeText(c, c.Empty(), "@nothing"))
	assert.False(t, handled)
}

func TestCommitSuggestion_Idempotent(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "recent @le")
	once := c.CommitSuggestion(s, "learning")
	twice := c.CommitSuggestion(once, "learning")
	assert.Equal(t, "recent @learning ", once.Text)
	assert.Equal(t, once.Text, twice.Text)
	assert.Equal(t, once, twice)
}

func TestCommitSuggestion_UnknownCategoryIgnored(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "@wo")
	next := c.CommitSuggestion(s, "groceries")
	assert.Equal(t, s, next)
	assert.False(t, next.Resolved.IsSet())
}

func TestCommitSuggestion_WithoutAtAppends(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "budget review")
	s = c.CommitSuggestion(s, "Finance")
	assert.Equal(t, "budget review @finance ", s.Text)
	assert.Equal(t, Category("finance"), s.Resolved)
}

func TestCommittedMidWordMentionSurvivesSubmit(t *testing.T) {
	c := newTestComposer(t)
	s := typeText(c, c.Empty(), "notes@wo")
	require.Equal(t, []Category{"work"}, s.Suggestions)

	s, handled := c.OnCycleKey(s)
	require.True(t, handled)
	require.Equal(t, "notes@work ", s.Text)

	s = typeText(c, s, s.Text+"today")
	assert.Equal(t, Category("work"), s.Resolved)
	assert.Equal(t, Submission{Query: "notes today", Category: "work", FromMention: true}, c.Extract(s))
}

func TestResolved_ClearedWhenMentionEdited(t *testing.T) {
	c := newTestComposer(t)
	s := c.CommitSuggestion(typeText(c, c.Empty(), "@wo"), "work")
	require.Equal(t, Category("work"), s.Resolved)

	s = typeText(c, s, "@work what happened")
	assert.Equal(t, Category("work"), s.Resolved, "typing after the mention keeps it")

	s = typeText(c, s, "@wor what happened")
	assert.False(t, s.Resolved.IsSet(), "editing the mention token clears it")

	s = c.CommitSuggestion(typeText(c, c.Empty(), "@he"), "health")
	s = typeText(c, s, "@health")
	assert.False(t, s.Resolved.IsSet(), "reopening the mention clears it")
}

func TestExtract_Examples(t *testing.T) {
	c := newTestComposer(t)
	tests := []struct {
		name     string
		text     string
		selected Category
		want     Submission
	}{
		{
			name: "leading mention",
			text: "@learning what have I learned",
			want: Submission{Query: "what have I learned", Category: "learning", FromMention: true},
		},
		{
			name: "unknown mention stays in text",
			text: "@xyz find stuff",
			want: Submission{Query: "@xyz find stuff"},
		},
		{
			name:     "unknown mention falls back to selector",
			text:     "  @xyz find stuff  ",
			selected: "work",
			want:     Submission{Query: "@xyz find stuff", Category: "work"},
		},
		{
			name: "mention in the middle",
			text: "summarize   @Work   notes from this week",
			want: Submission{Query: "summarize notes from this week", Category: "work", FromMention: true},
		},
		{
			name: "first valid mention wins",
			text: "@nope compare @health and @finance",
			want: Submission{Query: "@nope compare and @finance", Category: "health", FromMention: true},
		},
		{
			name: "mention inside a word",
			text: "notes@work today",
			want: Submission{Query: "notes today", Category: "work", FromMention: true},
		},
		{
			name: "address with unknown token stays in text",
			text: "write to me@work.com",
			want: Submission{Query: "write to me@work.com"},
		},
		{
			name: "empty",
			text: "",
			want: Submission{},
		},
		{
			name: "mention only",
			text: "@finance ",
			want: Submission{Category: "finance", FromMention: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := c.SelectField(typeText(c, c.Empty(), tt.text), tt.selected)
			got := c.Extract(s)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtract_EmptySubmission(t *testing.T) {
	c := newTestComposer(t)
	assert.True(t, c.Extract(c.Empty()).Empty())
	assert.True(t, c.Extract(typeText(c, c.Empty(), "   ")).Empty())
	assert.True(t, c.Extract(typeText(c, c.Empty(), "@work")).Empty())
	assert.False(t, c.Extract(typeText(c, c.Empty(), "@work hi")).Empty())
}

func TestExtract_Pure(t *testing.T) {
	c := newTestComposer(t)
	s := c.SelectField(typeText(c, c.Empty(), "what about @health this week"), "finance")
	before := s.clone()
	first := c.Extract(s)
	second := c.Extract(s)
	assert.Equal(t, first, second)
	assert.Equal(t, before, s)
}

func TestSelectField(t *testing.T) {
	c := newTestComposer(t)
	s := c.SelectField(c.Empty(), "HEALTH")
	assert.Equal(t, Category("health"), s.Selected)

	s = c.SelectField(s, "groceries")
	assert.Equal(t, Category("health"), s.Selected, "unknown categories are ignored")

	s = typeText(c, s, "anything @")
	assert.Equal(t, Category("health"), s.Selected, "text edits keep the selector")

	s = c.SelectField(s, "")
	assert.False(t, s.Selected.IsSet())
}

func TestReset_KeepsSelector(t *testing.T) {
	c := newTestComposer(t)
	s := c.SelectField(typeText(c, c.Empty(), "@wo"), "work")
	s = c.Reset(s)
	assert.Equal(t, State{Selected: "work"}, s)
	assert.Equal(t, Idle, s.Phase())
}

func TestRefresh_FollowsNewCatalog(t *testing.T) {
	c := newTestComposer(t)
	s := c.SelectField(typeText(c, c.Empty(), "@tr"), "finance")
	require.Empty(t, s.Suggestions)

	travel, err := New(Config{Categories: []string{"travel", "work"}})
	require.NoError(t, err)
	s = travel.Refresh(s)
	assert.Equal(t, []Category{"travel"}, s.Suggestions)
	assert.False(t, s.Selected.IsSet(), "selector dropped when category disappears")
}

func TestView(t *testing.T) {
	c := newTestComposer(t)

	got := c.View(typeText(c, c.Empty(), "@h"))
	want := View{SuggestionsVisible: true, Suggestions: []Category{"health"}, Phase: Suggesting}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("View mismatch (-want +got):\n%s", diff)
	}

	got = c.View(typeText(c, c.Empty(), "@q"))
	want = View{Phase: SuggestingEmpty}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("View mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, c.View(c.Empty()).SuggestionsVisible)
}
