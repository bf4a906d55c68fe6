// Package composer implements the @field mention parser behind the agent
// query input: live category suggestions while a mention is typed, keyboard
// cycling and committing, and extraction of the category plus the cleaned
// query text at submit time.
//
// Every operation is a pure function of the previous State; the host owns
// the State value and re-renders from View after each call.
package composer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config is the composer's construction-time configuration.
type Config struct {
	Categories []string
}

// Composer holds the category catalog. It carries no per-session state.
type Composer struct {
	catalog *Catalog
}

// New creates a composer over the configured categories.
func New(cfg Config) (*Composer, error) {
	ids := cfg.Categories
	if len(ids) == 0 {
		ids = DefaultCategories
	}
	catalog, err := NewCatalog(ids)
	if err != nil {
		return nil, err
	}
	return &Composer{catalog: catalog}, nil
}

// Catalog returns the composer's category catalog.
func (c *Composer) Catalog() *Catalog {
	return c.catalog
}

// Empty returns the initial Idle state.
func (c *Composer) Empty() State {
	return State{}
}

// OnTextChanged derives a new state from user-edited text.
func (c *Composer) OnTextChanged(s State, text string) State {
	next := State{
		Text:     text,
		Resolved: s.Resolved,
		Selected: s.Selected,
	}

	if at := strings.LastIndex(text, "@"); at >= 0 {
		tail := text[at+1:]
		if !strings.ContainsFunc(tail, unicode.IsSpace) {
			next.MentionActive = true
			next.Fragment = tail
			next.Suggestions = c.catalog.MatchPrefix(tail)
		}
	}

	// An open mention or a removed mention token drops the committed category.
	if next.MentionActive || !hasMention(text, next.Resolved) {
		next.Resolved = ""
	}
	return next
}

// OnCycleKey advances the highlight. The bool is false when the key was not
// consumed and the host should apply its default behavior.
func (c *Composer) OnCycleKey(s State) (State, bool) {
	if s.Phase() != Suggesting {
		return s, false
	}
	if len(s.Suggestions) == 1 {
		return c.CommitSuggestion(s, s.Suggestions[0]), true
	}

	at := strings.LastIndex(s.Text, "@")
	if at < 0 {
		return s, false
	}

	next := s.clone()
	next.Highlight = (s.Highlight + 1) % len(s.Suggestions)
	next.Fragment = string(next.Suggestions[next.Highlight])
	next.Text = s.Text[:at+1] + next.Fragment
	return next, true
}

// OnCommitKey commits the highlighted suggestion. The bool is false when no
// suggestion is visible and the key should fall through to submit.
func (c *Composer) OnCommitKey(s State) (State, bool) {
	highlighted, ok := s.Highlighted()
	if !ok {
		return s, false
	}
	return c.CommitSuggestion(s, highlighted), true
}

// CommitSuggestion replaces the text from the last '@' with "@<category> "
// and closes the mention. Categories outside the catalog are ignored.
func (c *Composer) CommitSuggestion(s State, cat Category) State {
	canonical, ok := c.catalog.Lookup(string(cat))
	if !ok {
		return s.clone()
	}

	prefix := s.Text
	if at := strings.LastIndex(s.Text, "@"); at >= 0 {
		prefix = s.Text[:at]
	} else if prefix != "" && !endsWithSpace(prefix) {
		prefix += " "
	}

	return State{
		Text:     prefix + "@" + string(canonical) + " ",
		Resolved: canonical,
		Selected: s.Selected,
	}
}

// SelectField sets the explicit field selector. An empty category clears it;
// unknown categories leave the state unchanged.
func (c *Composer) SelectField(s State, cat Category) State {
	next := s.clone()
	if cat == "" {
		next.Selected = ""
		return next
	}
	if canonical, ok := c.catalog.Lookup(string(cat)); ok {
		next.Selected = canonical
	}
	return next
}

// Reset starts a new session, keeping the field selector.
func (c *Composer) Reset(s State) State {
	return State{Selected: s.Selected}
}

// Refresh re-derives a state against this composer's catalog, dropping
// categories the catalog no longer knows. Used after a configuration reload.
func (c *Composer) Refresh(s State) State {
	next := s
	if !c.catalog.Contains(next.Selected) {
		next.Selected = ""
	}
	if !c.catalog.Contains(next.Resolved) {
		next.Resolved = ""
	}
	return c.OnTextChanged(next, s.Text)
}

// View returns the render model for the suggestion dropdown.
func (c *Composer) View(s State) View {
	v := View{
		Phase:     s.Phase(),
		Highlight: s.Highlight,
	}
	if v.Phase == Suggesting {
		v.SuggestionsVisible = true
		v.Suggestions = make([]Category, len(s.Suggestions))
		copy(v.Suggestions, s.Suggestions)
	} else {
		v.Highlight = 0
	}
	return v
}

// Extract produces the query text and category to submit. It never fails:
// an unknown or malformed mention is left in the text as plain words.
func (c *Composer) Extract(s State) Submission {
	for _, m := range scanMentions(s.Text) {
		cat, ok := c.catalog.Lookup(m.token)
		if !ok {
			continue
		}
		left := strings.TrimRightFunc(s.Text[:m.start], unicode.IsSpace)
		right := strings.TrimLeftFunc(s.Text[m.end:], unicode.IsSpace)
		query := left
		if left != "" && right != "" {
			query += " "
		}
		query += right
		return Submission{
			Query:       strings.TrimSpace(query),
			Category:    cat,
			FromMention: true,
		}
	}

	return Submission{
		Query:    strings.TrimSpace(s.Text),
		Category: s.Selected,
	}
}

type mention struct {
	start, end int
	token      string
}

// scanMentions finds every "@token" run, where token is the maximal
// non-whitespace run after the '@'. OnTextChanged opens a mention at any '@',
// so no word boundary is required here either.
func scanMentions(text string) []mention {
	var out []mention
	for i, r := range text {
		if r == '@' {
			end := i + 1
			for end < len(text) {
				next, size := utf8.DecodeRuneInString(text[end:])
				if unicode.IsSpace(next) {
					break
				}
				end += size
			}
			if end > i+1 {
				out = append(out, mention{start: i, end: end, token: text[i+1 : end]})
			}
		}
	}
	return out
}

func hasMention(text string, cat Category) bool {
	if cat == "" {
		return false
	}
	for _, m := range scanMentions(text) {
		if strings.EqualFold(m.token, string(cat)) {
			return true
		}
	}
	return false
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
