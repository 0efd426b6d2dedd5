package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BOLT4L/SaleForecast/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "json",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "error level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "error",
				LogFormat: "json",
			},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg, io.Discard)
			require.NotNil(t, logger)

			// Verify global level is set
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"invalid", zerolog.InfoLevel}, // Default
		{"", zerolog.InfoLevel},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { logger.Debug("debug message") }, "debug message", "debug"},
		{"info", func() { logger.Info("info message") }, "info message", "info"},
		{"warnf", func() { logger.Warnf("unknown period %q", "Hourly") }, `unknown period "Hourly"`, "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decode(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
			assert.Equal(t, "test", entry["env"])
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	logger.WithField("granularity", "Monthly").
		WithFields(map[string]interface{}{
			"periods":  24,
			"strategy": "random_forest",
		}).
		Info("forecast run")

	entry := decode(t, &buf)
	assert.Equal(t, "Monthly", entry["granularity"])
	assert.Equal(t, float64(24), entry["periods"])
	assert.Equal(t, "random_forest", entry["strategy"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	logger.WithError(errors.New("no candidate order could be fitted")).Info("model training failed")

	entry := decode(t, &buf)
	assert.Equal(t, "no candidate order could be fitted", entry["error"])
	assert.Equal(t, "model training failed", entry["message"])
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{Env: "test", LogLevel: "info", LogFormat: "json"}, &buf)

	logger.WithRunID("3f2a").Info("started")

	entry := decode(t, &buf)
	assert.Equal(t, "3f2a", entry["run_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warnf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown")
}

func TestLogFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{"json format", "json"},
		{"console format", "console"},
		{"pretty format", "pretty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &config.Config{
				Env:       "test",
				LogLevel:  "info",
				LogFormat: tt.format,
			}

			logger := New(cfg, &buf)
			logger.Info("test message")

			output := buf.String()
			assert.NotEmpty(t, output)
			assert.True(t, strings.Contains(output, "test message"), "got: %s", output)
		})
	}
}
