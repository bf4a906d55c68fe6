package composer

import (
	"strings"
	"unicode"

	"github.com/grovetools/archive/errors"
)

// Category is one archive classification label, stored lower-cased.
type Category string

// String returns the category identifier.
func (c Category) String() string {
	return string(c)
}

// IsSet reports whether the category holds a value.
func (c Category) IsSet() bool {
	return c != ""
}

// DefaultCategories is the catalog used when configuration does not provide one.
var DefaultCategories = []string{
	"personal",
	"work",
	"inspiration",
	"learning",
	"health",
	"finance",
}

// Catalog is the closed, ordered set of categories a composer matches against.
type Catalog struct {
	ordered []Category
	index   map[string]Category
}

// NewCatalog builds a catalog from identifiers, preserving their order.
func NewCatalog(ids []string) (*Catalog, error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeConfigValidation, "category catalog cannot be empty")
	}

	catalog := &Catalog{
		ordered: make([]Category, 0, len(ids)),
		index:   make(map[string]Category, len(ids)),
	}
	for _, raw := range ids {
		id := strings.ToLower(raw)
		switch {
		case id == "":
			return nil, errors.InvalidCategory(raw, "identifier is empty")
		case strings.ContainsFunc(id, unicode.IsSpace):
			return nil, errors.InvalidCategory(raw, "identifier contains whitespace")
		case strings.Contains(id, "@"):
			return nil, errors.InvalidCategory(raw, "identifier contains '@'")
		}
		if _, dup := catalog.index[id]; dup {
			return nil, errors.InvalidCategory(raw, "duplicate identifier")
		}
		c := Category(id)
		catalog.ordered = append(catalog.ordered, c)
		catalog.index[id] = c
	}
	return catalog, nil
}

// All returns a copy of the categories in enumeration order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Lookup resolves a token to its category, ignoring case.
func (c *Catalog) Lookup(token string) (Category, bool) {
	cat, ok := c.index[strings.ToLower(token)]
	return cat, ok
}

// Contains reports whether cat belongs to the catalog.
func (c *Catalog) Contains(cat Category) bool {
	_, ok := c.Lookup(string(cat))
	return ok
}

// MatchPrefix returns every category starting with fragment, in enumeration order.
// An empty fragment matches the whole catalog.
func (c *Catalog) MatchPrefix(fragment string) []Category {
	prefix := strings.ToLower(fragment)
	var out []Category
	for _, cat := range c.ordered {
		if strings.HasPrefix(string(cat), prefix) {
			out = append(out, cat)
		}
	}
	return out
}
