package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func resetLoggers(t *testing.T) {
	t.Helper()
	reset := func() {
		loggersMu.Lock()
		loggers = make(map[string]*logrus.Entry)
		files = make(map[string]io.Writer)
		loggersMu.Unlock()
		_ = Close()
		loggersMu.Lock()
		sinks = make(map[string]*lumberjack.Logger)
		loggersMu.Unlock()
	}
	reset()
	t.Cleanup(reset)
}

func TestNewLogger(t *testing.T) {
	resetLoggers(t)
	t.Setenv("ARCHIVE_HOME", t.TempDir())

	logger := NewLogger("test-component")
	require.NotNil(t, logger)
	assert.Equal(t, "test-component", logger.Data["component"])
	assert.Same(t, logger, NewLogger("test-component"), "loggers are cached per component")
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	logger.WithField("component", "test").WithField("b", 2).WithField("a", 1).Info("Test message")

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "test")
	assert.Contains(t, output, "Test message")
	assert.Contains(t, output, "a=1 b=2", "fields are sorted")
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "query sent",
				Data:    logrus.Fields{"component": "agent", "field": "work"},
			},
			want: []string{"[INFO]", "agent", "query sent", "field=work"},
		},
		{
			name:   "simple format",
			config: FormatConfig{DisableTimestamp: true, DisableComponent: true},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "rate limited",
				Data:    logrus.Fields{"component": "archiveapi"},
			},
			want:    []string{"[WARN]", "rate limited"},
			notWant: []string{"archiveapi"},
		},
		{
			name:   "caller information",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "with caller",
					Data:    logrus.Fields{"component": "agent"},
					Caller: &runtime.Frame{
						File:     "/path/to/model.go",
						Line:     42,
						Function: "github.com/grovetools/archive/tui/agent.(*Model).Update",
					},
				}
			}(),
			want: []string{"[model.go:42 agent.(*Model).Update]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			output, err := formatter.Format(tt.entry)
			require.NoError(t, err)

			for _, want := range tt.want {
				assert.Contains(t, string(output), want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, string(output), notWant)
			}
		})
	}
}

func TestEnvironmentLevel(t *testing.T) {
	resetLoggers(t)
	t.Setenv("ARCHIVE_LOG_LEVEL", "debug")
	t.Setenv("ARCHIVE_LOG_CALLER", "true")

	disabled := false
	logger, file := newLogger(Config{File: FileSinkConfig{Enabled: &disabled}}, io.Discard)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.True(t, logger.ReportCaller)
	assert.Nil(t, file)
}

func TestFileSink(t *testing.T) {
	resetLoggers(t)
	t.Setenv("ARCHIVE_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "archive.log")

	var stderr bytes.Buffer
	logger, file := newLogger(Config{
		Level:  "info",
		File:   FileSinkConfig{Path: path},
		Format: FormatConfig{StructuredToStderr: "never"},
	}, &stderr)
	require.NotNil(t, file)

	logger.WithField("component", "test").Info("written to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Empty(t, stderr.String())
}

func TestStderrModes(t *testing.T) {
	orig := stderrIsTerminal
	defer func() { stderrIsTerminal = orig }()
	t.Setenv("ARCHIVE_DEBUG", "")

	stderrIsTerminal = func() bool { return true }
	assert.False(t, shouldLogToStderr("auto", logrus.InfoLevel), "interactive terminals stay quiet")
	assert.True(t, shouldLogToStderr("auto", logrus.DebugLevel))
	assert.True(t, shouldLogToStderr("always", logrus.InfoLevel))

	stderrIsTerminal = func() bool { return false }
	assert.True(t, shouldLogToStderr("auto", logrus.InfoLevel), "piped output gets logs")
	assert.False(t, shouldLogToStderr("never", logrus.DebugLevel))
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)
	p.Success("item created")
	p.Field("id", "abc")
	p.ErrorPretty("delete failed", os.ErrNotExist)

	out := buf.String()
	assert.Contains(t, out, "item created")
	assert.Contains(t, out, "abc")
	assert.True(t, strings.Contains(out, "delete failed") && strings.Contains(out, os.ErrNotExist.Error()))
}
