package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/pkg/paths"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	files     = make(map[string]io.Writer)
	sinks     = make(map[string]*lumberjack.Logger)
	loggersMu sync.Mutex

	// stderrIsTerminal is replaced in tests.
	stderrIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
)

// NewLogger returns the logger for a component, configured from the
// `logging` section of archive.yml. Loggers are cached per component.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	logger, file := newLogger(logCfg, os.Stderr)
	entry := logger.WithField("component", component)
	loggers[component] = entry
	if file != nil {
		files[component] = file
	}
	return entry
}

// newLogger builds a configured logger and returns its file sink, if any.
// Callers must hold loggersMu.
func newLogger(logCfg Config, stderr io.Writer) (*logrus.Logger, io.Writer) {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("ARCHIVE_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("ARCHIVE_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer
	var file io.Writer
	if logCfg.File.enabled() {
		if sink := fileSink(logCfg.File); sink != nil {
			file = sink
			writers = append(writers, sink)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		// Interactive sessions with no file sink stay silent rather than
		// drawing over a TUI.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return logger, file
}

// fileSink returns the shared rotating writer for the configured path.
// Callers must hold loggersMu.
func fileSink(cfg FileSinkConfig) *lumberjack.Logger {
	path := cfg.Path
	if path == "" {
		path = paths.LogFile()
	}
	if path == "" {
		return nil
	}
	if expanded, err := paths.Expand(path); err == nil {
		path = expanded
	}

	if sink, ok := sinks[path]; ok {
		return sink
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	sinks[path] = sink
	return sink
}

func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		isDebug := os.Getenv("ARCHIVE_DEBUG") == "1" || level >= logrus.DebugLevel
		return isDebug || !stderrIsTerminal()
	}
}

// DisableStderr routes every cached logger away from the terminal. TUIs call
// this before taking over the screen.
func DisableStderr() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for component, entry := range loggers {
		if file, ok := files[component]; ok {
			entry.Logger.SetOutput(file)
		} else {
			entry.Logger.SetOutput(io.Discard)
		}
	}
}

// Close flushes and closes the rotating file sinks.
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	var firstErr error
	for _, sink := range sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
