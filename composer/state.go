package composer

// Phase is the derived state of a composer session.
type Phase int

const (
	// Idle means no mention is open.
	Idle Phase = iota
	// Suggesting means a mention is open and at least one category matches.
	Suggesting
	// SuggestingEmpty means a mention is open but nothing matches.
	SuggestingEmpty
)

func (p Phase) String() string {
	switch p {
	case Suggesting:
		return "suggesting"
	case SuggestingEmpty:
		return "suggesting-empty"
	default:
		return "idle"
	}
}

// State is one input session. Operations never mutate a State in place;
// they return a new value.
type State struct {
	// Text is the literal input, including any @mention fragment.
	Text string
	// MentionActive is true while the text after the last '@' has no whitespace.
	MentionActive bool
	// Fragment is the text after the last '@'. Only meaningful while MentionActive.
	Fragment string
	// Suggestions are the categories matching the typed fragment.
	Suggestions []Category
	// Highlight indexes Suggestions. Zero when Suggestions is empty.
	Highlight int
	// Resolved is the category committed from the dropdown, if any.
	Resolved Category
	// Selected is the explicit field selector value, used as the submit fallback.
	Selected Category
}

// Phase derives the session phase.
func (s State) Phase() Phase {
	if !s.MentionActive {
		return Idle
	}
	if len(s.Suggestions) == 0 {
		return SuggestingEmpty
	}
	return Suggesting
}

// Highlighted returns the highlighted suggestion.
func (s State) Highlighted() (Category, bool) {
	if s.Phase() != Suggesting || s.Highlight < 0 || s.Highlight >= len(s.Suggestions) {
		return "", false
	}
	return s.Suggestions[s.Highlight], true
}

func (s State) clone() State {
	next := s
	if s.Suggestions != nil {
		next.Suggestions = make([]Category, len(s.Suggestions))
		copy(next.Suggestions, s.Suggestions)
	}
	return next
}

// View is what a host renders for the suggestion dropdown.
type View struct {
	SuggestionsVisible bool
	Suggestions        []Category
	Highlight          int
	Phase              Phase
}

// Submission is the extracted result handed to the query endpoint.
type Submission struct {
	Query    string
	Category Category
	// FromMention is true when Category came from an @mention in the text
	// rather than the field selector.
	FromMention bool
}

// Empty reports whether there is no query text to send.
func (s Submission) Empty() bool {
	return s.Query == ""
}
