package keymap

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
)

var bindingType = reflect.TypeOf(key.Binding{})

// Conflict is a key left on more than one action.
type Conflict struct {
	Key     string
	Actions []string
}

// OverrideReport describes how a tui.keybindings section mapped onto a keymap.
type OverrideReport struct {
	Applied   []string
	Unknown   []string
	Conflicts []Conflict
}

// Err returns a CONFIG_VALIDATION error for the first unknown action or key
// conflict, or nil.
func (r OverrideReport) Err() error {
	if len(r.Unknown) > 0 {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("keybinding action '%s' does not exist in this view", r.Unknown[0])).
			WithDetail("actions", r.Unknown)
	}
	if len(r.Conflicts) > 0 {
		c := r.Conflicts[0]
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("key '%s' is bound to both %s", c.Key, strings.Join(c.Actions, " and "))).
			WithDetail("key", c.Key).
			WithDetail("actions", c.Actions)
	}
	return nil
}

// ApplyOverrides rebinds the key.Binding fields of km tagged
// `keymap:"<action>"` that overrides names. km must point to a struct;
// embedded structs are walked. A rebound key keeps its help description and
// shows its first key. Untagged and unexported fields are never touched.
func ApplyOverrides(km interface{}, overrides config.KeybindingSectionConfig) OverrideReport {
	var report OverrideReport

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return report
	}

	known := make(map[string]bool)
	owners := make(map[string][]string)
	walkBindings(v.Elem(), func(action string, field reflect.Value) {
		known[action] = true
		binding := field.Interface().(key.Binding)
		if keys := cleanKeys(overrides[action]); len(keys) > 0 {
			binding = key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(helpLabel(keys[0]), binding.Help().Desc),
			)
			field.Set(reflect.ValueOf(binding))
			report.Applied = append(report.Applied, action)
		}
		for _, k := range binding.Keys() {
			owners[k] = append(owners[k], action)
		}
	})

	for action := range overrides {
		if !known[action] {
			report.Unknown = append(report.Unknown, action)
		}
	}
	for k, actions := range owners {
		if len(actions) > 1 {
			report.Conflicts = append(report.Conflicts, Conflict{Key: k, Actions: actions})
		}
	}
	sort.Strings(report.Applied)
	sort.Strings(report.Unknown)
	sort.Slice(report.Conflicts, func(i, j int) bool {
		return report.Conflicts[i].Key < report.Conflicts[j].Key
	})
	return report
}

// Actions lists the overridable action names of km in field order.
func Actions(km interface{}) []string {
	v := reflect.ValueOf(km)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	// Walking needs settable fields, so work on an addressable copy.
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)

	var actions []string
	walkBindings(cp, func(action string, _ reflect.Value) {
		actions = append(actions, action)
	})
	return actions
}

func walkBindings(v reflect.Value, fn func(action string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field, sf := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}
		if sf.Anonymous && field.Kind() == reflect.Struct {
			walkBindings(field, fn)
			continue
		}
		action := sf.Tag.Get("keymap")
		if action == "" || sf.Type != bindingType {
			continue
		}
		fn(action, field)
	}
}

// cleanKeys trims the configured combos and drops blanks and repeats.
func cleanKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// helpLabel shortens modifiers the way the default help text does: ctrl+f
// becomes C-f and alt+1 becomes M-1.
func helpLabel(k string) string {
	switch {
	case strings.HasPrefix(k, "ctrl+"):
		return "C-" + strings.TrimPrefix(k, "ctrl+")
	case strings.HasPrefix(k, "alt+"):
		return "M-" + strings.TrimPrefix(k, "alt+")
	}
	return k
}
