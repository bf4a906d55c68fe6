package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeConfigs(t *testing.T) {
	base := &Config{
		API: APIConfig{BaseURL: "http://base", Token: "base-token", CacheTTL: "10s"},
		Tags: []string{"food"},
		TUI: &TUIConfig{
			Theme:       "kanagawa",
			Keybindings: KeybindingSectionConfig{"cycle": {"tab"}, "field": {"ctrl+f"}},
		},
		Extensions: map[string]interface{}{
			"logging": map[string]interface{}{"level": "info", "report_caller": true},
		},
	}
	override := &Config{
		API:  APIConfig{BaseURL: "http://override"},
		Tags: []string{"travel", "art"},
		Agent: AgentConfig{
			HistorySize:    5,
			StarterPrompts: []StarterPrompt{{Title: "One", Prompt: "only prompt"}},
		},
		TUI: &TUIConfig{Keybindings: KeybindingSectionConfig{"cycle": {"ctrl+n"}}},
		Extensions: map[string]interface{}{
			"logging": map[string]interface{}{"level": "debug"},
			"extra":   "value",
		},
	}

	merged := mergeConfigs(base, override)

	assert.Equal(t, "http://override", merged.API.BaseURL)
	assert.Equal(t, "base-token", merged.API.Token)
	assert.Equal(t, "10s", merged.API.CacheTTL)
	assert.Equal(t, []string{"travel", "art"}, merged.Tags)
	assert.Equal(t, 5, merged.Agent.HistorySize)
	assert.Len(t, merged.Agent.StarterPrompts, 1)
	assert.Equal(t, "kanagawa", merged.TUI.Theme)
	assert.Equal(t, []string{"ctrl+n"}, merged.TUI.Keybindings["cycle"])
	assert.Equal(t, []string{"ctrl+f"}, merged.TUI.Keybindings["field"])

	logging := merged.Extensions["logging"].(map[string]interface{})
	assert.Equal(t, "debug", logging["level"])
	assert.Equal(t, true, logging["report_caller"])
	assert.Equal(t, "value", merged.Extensions["extra"])

	// The base is left untouched.
	assert.Equal(t, "http://base", base.API.BaseURL)
	assert.Equal(t, []string{"tab"}, base.TUI.Keybindings["cycle"])
	assert.Equal(t, "info", base.Extensions["logging"].(map[string]interface{})["level"])
}

func TestMergeConfigsKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := &Config{
		Categories: []CategoryConfig{{ID: "work"}},
		Map:        MapConfig{CenterLatitude: 1, CenterLongitude: 2},
	}
	merged := mergeConfigs(base, &Config{})
	assert.Equal(t, base.Categories, merged.Categories)
	assert.Equal(t, base.Map, merged.Map)
	assert.Nil(t, merged.TUI)
}
