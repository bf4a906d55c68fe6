package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/grovetools/archive/composer"
)

// APIConfig configures the archive gateway client.
type APIConfig struct {
	BaseURL           string `yaml:"base_url,omitempty" toml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"description=Base URL of the archive gateway API (default: http://localhost:8000/api/v1)"`
	Token             string `yaml:"token,omitempty" toml:"token,omitempty" json:"token,omitempty" jsonschema:"description=Bearer token sent with every request"`
	Timeout           string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=HTTP request timeout (default: 30s)"`
	RequestsPerMinute int    `yaml:"requests_per_minute,omitempty" toml:"requests_per_minute,omitempty" json:"requests_per_minute,omitempty" jsonschema:"description=Client-side request rate limit (default: 60),minimum=0"`
	CacheTTL          string `yaml:"cache_ttl,omitempty" toml:"cache_ttl,omitempty" json:"cache_ttl,omitempty" jsonschema:"description=How long item and map listings are cached; 0 disables (default: 30s)"`
}

// CategoryConfig defines one archive field.
type CategoryConfig struct {
	ID    string `yaml:"id" toml:"id" json:"id" jsonschema:"required,description=Identifier used in @mentions and API requests,pattern=^[^\\s@]+$"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty" jsonschema:"description=Display name"`
	Color string `yaml:"color,omitempty" toml:"color,omitempty" json:"color,omitempty" jsonschema:"description=Lipgloss color for badges and suggestions"`
}

// DisplayName returns the label, falling back to the identifier.
func (c CategoryConfig) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// MapConfig holds settings for the map view.
type MapConfig struct {
	CenterLatitude  float64 `yaml:"center_latitude,omitempty" toml:"center_latitude,omitempty" json:"center_latitude,omitempty" jsonschema:"description=Fallback map centre latitude (default: Milan),minimum=-90,maximum=90"`
	CenterLongitude float64 `yaml:"center_longitude,omitempty" toml:"center_longitude,omitempty" json:"center_longitude,omitempty" jsonschema:"description=Fallback map centre longitude (default: Milan),minimum=-180,maximum=180"`
}

// StarterPrompt is a canned query offered on an empty conversation.
type StarterPrompt struct {
	Title  string `yaml:"title" toml:"title" json:"title" jsonschema:"description=Short heading"`
	Prompt string `yaml:"prompt" toml:"prompt" json:"prompt" jsonschema:"description=Text loaded into the input"`
}

// AgentConfig holds settings for the agent view.
type AgentConfig struct {
	Title          string          `yaml:"title,omitempty" toml:"title,omitempty" json:"title,omitempty" jsonschema:"description=Header title"`
	Subtitle       string          `yaml:"subtitle,omitempty" toml:"subtitle,omitempty" json:"subtitle,omitempty" jsonschema:"description=Header subtitle"`
	Placeholder    string          `yaml:"placeholder,omitempty" toml:"placeholder,omitempty" json:"placeholder,omitempty" jsonschema:"description=Input placeholder text"`
	HistorySize    int             `yaml:"history_size,omitempty" toml:"history_size,omitempty" json:"history_size,omitempty" jsonschema:"description=Number of submitted queries kept for recall (default: 50),minimum=0"`
	QueryTimeout   string          `yaml:"query_timeout,omitempty" toml:"query_timeout,omitempty" json:"query_timeout,omitempty" jsonschema:"description=Timeout for a single agent query (default: 60s)"`
	StarterPrompts []StarterPrompt `yaml:"starter_prompts,omitempty" toml:"starter_prompts,omitempty" json:"starter_prompts,omitempty" jsonschema:"description=Prompts offered on an empty conversation,maxItems=9"`
}

// KeybindingSectionConfig maps action names to key combinations.
type KeybindingSectionConfig map[string][]string

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	Theme       string                  `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" jsonschema:"description=Color theme for terminal interfaces,enum=kanagawa,enum=terminal"`
	Keybindings KeybindingSectionConfig `yaml:"keybindings,omitempty" toml:"keybindings,omitempty" json:"keybindings,omitempty" jsonschema:"description=Keybinding overrides keyed by action (cycle, commit, field, history_prev, history_next, dismiss, scroll_up, scroll_down, clear, help, quit)"`
}

// Config represents the archive.yml configuration.
type Config struct {
	Version    string           `yaml:"version" toml:"version" json:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	API        APIConfig        `yaml:"api,omitempty" toml:"api,omitempty" json:"api,omitempty" jsonschema:"description=Archive gateway connection"`
	Categories []CategoryConfig `yaml:"categories,omitempty" toml:"categories,omitempty" json:"categories,omitempty" jsonschema:"description=Archive fields in suggestion order"`
	Tags       []string         `yaml:"tags,omitempty" toml:"tags,omitempty" json:"tags,omitempty" jsonschema:"description=Tags offered when adding items"`
	Map        MapConfig        `yaml:"map,omitempty" toml:"map,omitempty" json:"map,omitempty" jsonschema:"description=Map view settings"`
	Agent      AgentConfig      `yaml:"agent,omitempty" toml:"agent,omitempty" json:"agent,omitempty" jsonschema:"description=Agent view settings"`
	TUI        *TUIConfig       `yaml:"tui,omitempty" toml:"tui,omitempty" json:"tui,omitempty" jsonschema:"description=TUI appearance and behavior settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

const (
	DefaultBaseURL           = "http://localhost:8000/api/v1"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerMinute = 60
	DefaultCacheTTL          = 30 * time.Second
	DefaultHistorySize       = 50
	DefaultQueryTimeout      = 60 * time.Second

	// Milan.
	DefaultCenterLatitude  = 45.4642
	DefaultCenterLongitude = 9.1900
)

// DefaultCategories mirrors composer.DefaultCategories with labels and colors.
var DefaultCategories = []CategoryConfig{
	{ID: "personal", Label: "Personal", Color: "#a78bfa"},
	{ID: "work", Label: "Work", Color: "#f472b6"},
	{ID: "inspiration", Label: "Inspiration", Color: "#60a5fa"},
	{ID: "learning", Label: "Learning", Color: "#4ade80"},
	{ID: "health", Label: "Health", Color: "#f87171"},
	{ID: "finance", Label: "Finance", Color: "#facc15"},
}

// DefaultTags is the tag list offered by item forms.
var DefaultTags = []string{
	"travel", "food", "fitness", "coding", "design", "music",
	"photography", "reading", "writing", "art", "nature", "family",
	"friends", "career", "education", "technology", "business", "finance",
	"health", "mindfulness", "productivity", "entertainment", "sports", "hobby",
}

// DefaultStarterPrompts are shown on an empty conversation.
var DefaultStarterPrompts = []StarterPrompt{
	{Title: "Find restaurants", Prompt: "What restaurants have I saved?"},
	{Title: "Work summary", Prompt: "Summarize my work notes from this week"},
	{Title: "Location search", Prompt: "Show me all items with locations"},
	{Title: "Learning progress", Prompt: "What have I learned recently?"},
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = DefaultTimeout.String()
	}
	if c.API.RequestsPerMinute == 0 {
		c.API.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.API.CacheTTL == "" {
		c.API.CacheTTL = DefaultCacheTTL.String()
	}

	if len(c.Categories) == 0 {
		c.Categories = append([]CategoryConfig(nil), DefaultCategories...)
	}
	if len(c.Tags) == 0 {
		c.Tags = append([]string(nil), DefaultTags...)
	}

	if c.Map.CenterLatitude == 0 && c.Map.CenterLongitude == 0 {
		c.Map.CenterLatitude = DefaultCenterLatitude
		c.Map.CenterLongitude = DefaultCenterLongitude
	}

	if c.Agent.Title == "" {
		c.Agent.Title = "AI Agent"
	}
	if c.Agent.Subtitle == "" {
		c.Agent.Subtitle = "Ask questions about your archived content"
	}
	if c.Agent.Placeholder == "" {
		c.Agent.Placeholder = "Ask me anything about your archive... (@ to pick a field)"
	}
	if c.Agent.HistorySize == 0 {
		c.Agent.HistorySize = DefaultHistorySize
	}
	if c.Agent.QueryTimeout == "" {
		c.Agent.QueryTimeout = DefaultQueryTimeout.String()
	}
	if len(c.Agent.StarterPrompts) == 0 {
		c.Agent.StarterPrompts = append([]StarterPrompt(nil), DefaultStarterPrompts...)
	}

	if c.TUI == nil {
		c.TUI = &TUIConfig{}
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = "kanagawa"
	}
}

// CategoryIDs returns the configured category identifiers in order.
func (c *Config) CategoryIDs() []string {
	ids := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		ids = append(ids, cat.ID)
	}
	return ids
}

// Category looks up a category definition by identifier.
func (c *Config) Category(id string) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}

// Composer builds the mention composer for the configured categories.
func (c *Config) Composer() (*composer.Composer, error) {
	return composer.New(composer.Config{Categories: c.CategoryIDs()})
}

// RequestTimeout returns api.timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return parseDurationOr(c.API.Timeout, DefaultTimeout)
}

// CacheTTL returns api.cache_ttl as a duration. Zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.API.CacheTTL, DefaultCacheTTL)
}

// QueryTimeout returns agent.query_timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return parseDurationOr(c.Agent.QueryTimeout, DefaultQueryTimeout)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded archive.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// ConfigSource identifies the origin of a configuration layer.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceGlobal  ConfigSource = "global"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)
