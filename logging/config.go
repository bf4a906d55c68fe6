package logging

// Config defines the `logging` section of archive.yml.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	// Can be overridden by the ARCHIVE_LOG_LEVEL environment variable.
	Level string `yaml:"level"`

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	// Can be enabled with ARCHIVE_LOG_CALLER=true.
	ReportCaller bool `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig configures the rotated log file.
type FileSinkConfig struct {
	// Enabled defaults to true; set false to disable the file sink.
	Enabled *bool `yaml:"enabled"`
	// Path defaults to $XDG_STATE_HOME/grove-archive/logs/archive.log.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}

func (f FileSinkConfig) enabled() bool {
	return f.Enabled == nil || *f.Enabled
}
