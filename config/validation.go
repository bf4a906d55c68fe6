package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/errors"
)

// keybindingActions are the names accepted under tui.keybindings.
var keybindingActions = map[string]bool{
	"cycle":        true,
	"commit":       true,
	"field":        true,
	"history_prev": true,
	"history_next": true,
	"dismiss":      true,
	"scroll_up":    true,
	"scroll_down":  true,
	"clear":        true,
	"help":         true,
	"quit":         true,
}

// KeybindingActions returns the action names accepted under tui.keybindings,
// sorted.
func KeybindingActions() []string {
	actions := make([]string, 0, len(keybindingActions))
	for action := range keybindingActions {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateAPI(&c.API); err != nil {
		return err
	}

	if _, err := composer.NewCatalog(c.CategoryIDs()); err != nil {
		return err
	}
	for _, cat := range c.Categories {
		if cat.ID != strings.ToLower(cat.ID) {
			return errors.InvalidCategory(cat.ID, "identifier must be lower-case")
		}
	}

	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return errors.New(errors.ErrCodeConfigValidation, "tags cannot contain empty entries")
		}
	}

	if err := validateDuration("agent.query_timeout", c.Agent.QueryTimeout, false); err != nil {
		return err
	}
	if c.Agent.HistorySize < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "agent.history_size cannot be negative").
			WithDetail("history_size", c.Agent.HistorySize)
	}
	for i, prompt := range c.Agent.StarterPrompts {
		if strings.TrimSpace(prompt.Prompt) == "" {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("agent.starter_prompts[%d] has no prompt text", i))
		}
	}

	if c.TUI != nil {
		for action := range c.TUI.Keybindings {
			if !keybindingActions[action] {
				return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("unknown keybinding action '%s'", action)).
					WithDetail("action", action)
			}
		}
	}

	return nil
}

func validateAPI(api *APIConfig) error {
	u, err := url.Parse(api.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeConfigValidation, "api.base_url must be an absolute URL").
			WithDetail("base_url", api.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrCodeConfigValidation, "api.base_url must use http or https").
			WithDetail("base_url", api.BaseURL)
	}

	if api.RequestsPerMinute < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "api.requests_per_minute cannot be negative").
			WithDetail("requests_per_minute", api.RequestsPerMinute)
	}
	if err := validateDuration("api.timeout", api.Timeout, false); err != nil {
		return err
	}
	return validateDuration("api.cache_ttl", api.CacheTTL, true)
}

func validateDuration(field, value string, allowZero bool) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("%s is not a valid duration", field)).
			WithDetail("value", value)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("%s must be positive", field)).
			WithDetail("value", value)
	}
	return nil
}
