package config

// mergeConfigs merges override configuration into base. Lists replace
// rather than append so a project can narrow the global category set.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.API = mergeAPI(result.API, override.API)

	if len(override.Categories) > 0 {
		result.Categories = append([]CategoryConfig(nil), override.Categories...)
	}
	if len(override.Tags) > 0 {
		result.Tags = append([]string(nil), override.Tags...)
	}

	if override.Map.CenterLatitude != 0 || override.Map.CenterLongitude != 0 {
		result.Map = override.Map
	}

	result.Agent = mergeAgent(result.Agent, override.Agent)
	result.TUI = mergeTUI(result.TUI, override.TUI)

	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for key, value := range result.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						mergedMap[k] = v
					}
					for k, v := range overrideMap {
						mergedMap[k] = v
					}
					merged[key] = mergedMap
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

func mergeAPI(base, override APIConfig) APIConfig {
	result := base
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Token != "" {
		result.Token = override.Token
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	if override.RequestsPerMinute != 0 {
		result.RequestsPerMinute = override.RequestsPerMinute
	}
	if override.CacheTTL != "" {
		result.CacheTTL = override.CacheTTL
	}
	return result
}

func mergeAgent(base, override AgentConfig) AgentConfig {
	result := base
	if override.Title != "" {
		result.Title = override.Title
	}
	if override.Subtitle != "" {
		result.Subtitle = override.Subtitle
	}
	if override.Placeholder != "" {
		result.Placeholder = override.Placeholder
	}
	if override.HistorySize != 0 {
		result.HistorySize = override.HistorySize
	}
	if override.QueryTimeout != "" {
		result.QueryTimeout = override.QueryTimeout
	}
	if len(override.StarterPrompts) > 0 {
		result.StarterPrompts = append([]StarterPrompt(nil), override.StarterPrompts...)
	}
	return result
}

func mergeTUI(base, override *TUIConfig) *TUIConfig {
	if override == nil {
		return base
	}
	if base == nil {
		copied := *override
		return &copied
	}

	result := *base
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if len(override.Keybindings) > 0 {
		keys := make(KeybindingSectionConfig, len(base.Keybindings)+len(override.Keybindings))
		for action, combos := range base.Keybindings {
			keys[action] = combos
		}
		for action, combos := range override.Keybindings {
			keys[action] = combos
		}
		result.Keybindings = keys
	}
	return &result
}
