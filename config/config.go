package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/pkg/paths"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Environment variables that override the api section after files are merged.
const (
	EnvAPIURL   = "ARCHIVE_API_URL"
	EnvAPIToken = "ARCHIVE_API_TOKEN"
)

// configNames are searched in order in each directory.
var configNames = []string{
	"archive.yml",
	"archive.yaml",
	".archive.yml",
	"archive.toml",
}

// Format is a configuration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the decoder from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, defaults and validates a single configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatForPath(path))
	if err != nil {
		if ae, ok := errors.As(err); ok {
			return nil, ae.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromBytes parses, defaults and validates configuration data.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// LoadDefault loads the configuration starting from the working directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory.
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger loads configuration with hierarchical merging:
// 1. Defaults
// 2. Global config ($XDG_CONFIG_HOME/grove-archive/archive.yml)
// 3. Project config (first archive.yml found walking up from startDir)
// 4. .env and ARCHIVE_API_* environment variables
//
// A missing project file is not an error; defaults apply.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	layered, err := LoadLayered(startDir, logger)
	if err != nil {
		return nil, err
	}
	return layered.Final, nil
}

// LayeredConfig holds the raw configuration from each source file,
// as well as the final merged configuration.
type LayeredConfig struct {
	Global    *Config
	Project   *Config
	Final     *Config
	FilePaths map[ConfigSource]string
}

// LoadLayered finds, parses and merges all configuration layers.
func LoadLayered(startDir string, logger *logrus.Logger) (*LayeredConfig, error) {
	layered := &LayeredConfig{FilePaths: make(map[ConfigSource]string)}
	merged := &Config{}

	if globalPath := paths.GlobalConfigFile(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalCfg, err := parseFile(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			} else {
				layered.Global = globalCfg
				layered.FilePaths[SourceGlobal] = globalPath
				merged = mergeConfigs(merged, globalCfg)
			}
		}
	}

	projectPath, err := FindConfigFile(startDir)
	switch {
	case err == nil:
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		projectCfg, err := parseFile(projectPath)
		if err != nil {
			return nil, err
		}
		layered.Project = projectCfg
		layered.FilePaths[SourceProject] = projectPath
		merged = mergeConfigs(merged, projectCfg)
	case errors.Is(err, errors.ErrCodeConfigNotFound):
		logger.WithField("start_dir", startDir).Debug("No project configuration found, using defaults")
	default:
		return nil, err
	}

	envDir := startDir
	if projectPath != "" {
		envDir = filepath.Dir(projectPath)
	}
	if applied := applyEnvOverrides(merged, envDir, logger); applied {
		layered.FilePaths[SourceEnv] = filepath.Join(envDir, ".env")
	}

	final, err := finalize(merged)
	if err != nil {
		return nil, err
	}
	layered.Final = final

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := yaml.Marshal(final); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(data))
		}
	}
	return layered, nil
}

// FindConfigFile searches from startDir up to the filesystem root for an
// archive configuration file.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := parse(data, FormatForPath(path))
	if err != nil {
		if ae, ok := errors.As(err); ok {
			return nil, ae.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// parse decodes raw configuration without defaults or validation.
func parse(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		extensions, err := tomlExtensions(expanded)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		cfg.Extensions = extensions
	default:
		if len(bytes.TrimSpace(expanded)) == 0 {
			return &cfg, nil
		}
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return &cfg, nil
}

// knownKeys are the top-level keys owned by Config; everything else is an extension.
var knownKeys = map[string]bool{
	"version":    true,
	"api":        true,
	"categories": true,
	"tags":       true,
	"map":        true,
	"agent":      true,
	"tui":        true,
}

func tomlExtensions(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var extensions map[string]interface{}
	for key, value := range raw {
		if knownKeys[key] {
			continue
		}
		if extensions == nil {
			extensions = make(map[string]interface{})
		}
		extensions[key] = value
	}
	return extensions, nil
}

// finalize applies defaults and runs schema and semantic validation.
func finalize(cfg *Config) (*Config, error) {
	cfg.SetDefaults()

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create schema validator")
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides loads dir/.env without clobbering the real environment
// and applies ARCHIVE_API_URL and ARCHIVE_API_TOKEN. It reports whether a
// .env file was read.
func applyEnvOverrides(cfg *Config, dir string, logger *logrus.Logger) bool {
	loaded := false
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			logger.WithError(err).WithField("path", envPath).Warn("Failed to load .env file")
		} else {
			loaded = true
		}
	}

	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.API.BaseURL = url
	}
	if token := os.Getenv(EnvAPIToken); token != "" {
		cfg.API.Token = token
	}
	return loaded
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
