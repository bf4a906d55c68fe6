package keymap

import "github.com/charmbracelet/bubbles/key"

// Section names used by the agent help overlay.
const (
	SectionNavigation = "Navigation"
	SectionActions    = "Actions"
	SectionComposer   = "Composer"
	SectionHistory    = "History"
	SectionStarters   = "Starter Prompts"
	SectionSystem     = "System"
)

// Section is a titled column of the full help view.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps that group their bindings.
type SectionedKeyMap interface {
	Sections() []Section
}

func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// FilterEnabled drops disabled bindings, such as starter prompts beyond the
// configured list.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}
