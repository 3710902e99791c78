package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/config"
)

func Test_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		expected zerolog.Level
	}{
		{name: "Default", level: config.DefaultLogLevel, format: ConsoleFormat, expected: zerolog.InfoLevel},
		{name: "Debug level", level: DebugLevel, format: ConsoleFormat, expected: zerolog.DebugLevel},
		{name: "Warn level and json format", level: WarnLevel, format: JSONFormat, expected: zerolog.WarnLevel},
		{name: "Error level", level: ErrorLevel, format: ConsoleFormat, expected: zerolog.ErrorLevel},
		{name: "Trace level", level: TraceLevel, format: ConsoleFormat, expected: zerolog.TraceLevel},
		{name: "Upper case level", level: "DEBUG", format: ConsoleFormat, expected: zerolog.DebugLevel},
		{name: "Empty level", level: "", format: ConsoleFormat, expected: zerolog.InfoLevel},
		{name: "Unknown level", level: "verbose", format: "unknown", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format

			logger := NewLogger(cfg)

			appLogger, ok := logger.(*AppLogger)
			require.True(t, ok)
			assert.Equal(t, tt.expected, appLogger.log.GetLevel())
		})
	}
}

func Test_parseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: DebugLevel, expected: zerolog.DebugLevel},
		{level: InfoLevel, expected: zerolog.InfoLevel},
		{level: WarnLevel, expected: zerolog.WarnLevel},
		{level: ErrorLevel, expected: zerolog.ErrorLevel},
		{level: TraceLevel, expected: zerolog.TraceLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "unknown", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func Test_WithComponent_AddsField(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = DebugLevel

	var buf bytes.Buffer

	log := NewLoggerWithOutput(cfg, &buf).WithComponent("store")
	log.Info().Int("entries", 3).Msg("Loaded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "STORE", line["component"])
	assert.Equal(t, "Loaded", line["message"])
	assert.Equal(t, config.Version, line["version"])
	assert.EqualValues(t, 3, line["entries"])
}

func Test_With_AddsField(t *testing.T) {
	var buf bytes.Buffer

	log := NewLoggerWithOutput(config.DefaultConfig(), &buf).With("folder", "/var/log/app")
	log.Warn().Msg("Watching")

	assert.Contains(t, buf.String(), `"folder":"/var/log/app"`)
}

func Test_Level_FiltersEvents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = WarnLevel

	var buf bytes.Buffer

	log := NewLoggerWithOutput(cfg, &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Error().Err(errors.New("boom")).Dur("after", time.Second).Msg("shown")
	assert.Contains(t, buf.String(), "boom")
}

func Test_ConsoleWriter_FormatsComponent(t *testing.T) {
	var buf bytes.Buffer

	w := newConsoleWriter(&buf)
	w.NoColor = true

	log := zerolog.New(w).With().Str("component", "FEED").Logger()
	log.Info().Msg("started")

	assert.Contains(t, buf.String(), "[FEED]")
	assert.Contains(t, buf.String(), "started")
	assert.NotContains(t, buf.String(), "component=")
}
