package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/app/errors"
)

func Test_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, DefaultPatterns, cfg.Loader.Patterns)
	assert.Equal(t, DefaultPollInterval, cfg.Feed.PollInterval)
	assert.Equal(t, DefaultDebounce, cfg.Feed.Debounce)
	assert.Equal(t, 0, cfg.Store.Capacity)
	assert.Equal(t, DefaultBusBuffer, cfg.Bus.Buffer)
	assert.Equal(t, 1, cfg.Version)
	assert.NoError(t, cfg.Validate())
}

func Test_DefaultConfig_PatternsAreCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.Patterns[0] = "*.txt"

	assert.Equal(t, "*.jsonl", DefaultPatterns[0])
}

func Test_LoadFrom(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
		error   error
	}{
		{
			name: "valid config file",
			content: `version: 1
logging:
  level: DEBUG
  format: json
loader:
  patterns: ["*.jsonl"]
feed:
  poll_interval: 5s
  debounce: 0s
store:
  capacity: 500
export:
  dir: /tmp/exports
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
				assert.Equal(t, []string{"*.jsonl"}, cfg.Loader.Patterns)
				assert.Equal(t, 5*time.Second, cfg.Feed.PollInterval)
				assert.Equal(t, time.Duration(0), cfg.Feed.Debounce)
				assert.Equal(t, 500, cfg.Store.Capacity)
				assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
				assert.Equal(t, DefaultBusBuffer, cfg.Bus.Buffer)
			},
		},
		{
			name:    "partial config keeps defaults",
			content: "store:\n  capacity: 10\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10, cfg.Store.Capacity)
				assert.Equal(t, DefaultPollInterval, cfg.Feed.PollInterval)
				assert.Equal(t, DefaultPatterns, cfg.Loader.Patterns)
			},
		},
		{
			name:    "invalid yaml syntax",
			content: "logging: [unclosed\n",
			error:   errors.ErrFailedToParseConfig,
		},
		{
			name:    "invalid value type",
			content: "store:\n  capacity: lots\n",
			error:   errors.ErrFailedToParseConfig,
		},
		{
			name:    "invalid format",
			content: "logging:\n  format: xml\n",
			error:   errors.ErrInvalidLogFormat,
		},
		{
			name:    "negative capacity",
			content: "store:\n  capacity: -1\n",
			error:   errors.ErrInvalidCapacity,
		},
		{
			name:    "zero bus buffer",
			content: "bus:\n  buffer: 0\n",
			error:   errors.ErrInvalidBusBuffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := LoadFrom(path)

			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func Test_LoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func Test_LoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("LOGSCOPE_STORE_CAPACITY", "50")
	t.Setenv("LOGSCOPE_LOGGING_LEVEL", "warn")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Store.Capacity)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		error  error
	}{
		{name: "Defaults are valid", modify: func(cfg *Config) {}, error: nil},
		{name: "No patterns", modify: func(cfg *Config) { cfg.Loader.Patterns = nil }, error: errors.ErrPatternsRequired},
		{name: "Bad pattern", modify: func(cfg *Config) { cfg.Loader.Patterns = []string{"[invalid"} }, error: errors.ErrInvalidPattern},
		{name: "Zero poll interval", modify: func(cfg *Config) { cfg.Feed.PollInterval = 0 }, error: errors.ErrInvalidPollInterval},
		{name: "Negative debounce", modify: func(cfg *Config) { cfg.Feed.Debounce = -time.Second }, error: errors.ErrInvalidDebounce},
		{name: "Negative capacity", modify: func(cfg *Config) { cfg.Store.Capacity = -5 }, error: errors.ErrInvalidCapacity},
		{name: "Zero buffer", modify: func(cfg *Config) { cfg.Bus.Buffer = 0 }, error: errors.ErrInvalidBusBuffer},
		{name: "Unknown format", modify: func(cfg *Config) { cfg.Logging.Format = "xml" }, error: errors.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.error == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.error)
			}
		})
	}
}
