package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"logscope/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	Logging struct {
		Level  string `yaml:"level" mapstructure:"level"`
		Format string `yaml:"format" mapstructure:"format"`
	} `yaml:"logging" mapstructure:"logging"`
	Loader struct {
		Patterns []string `yaml:"patterns" mapstructure:"patterns"`
	} `yaml:"loader" mapstructure:"loader"`
	Feed struct {
		PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
		Debounce     time.Duration `yaml:"debounce" mapstructure:"debounce"`
	} `yaml:"feed" mapstructure:"feed"`
	Store struct {
		Capacity int `yaml:"capacity" mapstructure:"capacity"`
	} `yaml:"store" mapstructure:"store"`
	Export struct {
		Dir string `yaml:"dir" mapstructure:"dir"`
	} `yaml:"export" mapstructure:"export"`
	Bus struct {
		Buffer int `yaml:"buffer" mapstructure:"buffer"`
	} `yaml:"bus" mapstructure:"bus"`
	Telemetry struct {
		DSN         string `yaml:"dsn" mapstructure:"dsn"`
		Environment string `yaml:"environment" mapstructure:"environment"`
	} `yaml:"telemetry" mapstructure:"telemetry"`
	Version int `yaml:"version" mapstructure:"version"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
	}

	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat

	cfg.Loader.Patterns = make([]string, len(DefaultPatterns))
	copy(cfg.Loader.Patterns, DefaultPatterns)

	cfg.Feed.PollInterval = DefaultPollInterval
	cfg.Feed.Debounce = DefaultDebounce

	cfg.Export.Dir = DefaultExportDir

	cfg.Bus.Buffer = DefaultBusBuffer

	return cfg
}

// Load loads the configuration from the default file location
func Load() (*Config, error) {
	return LoadFrom(ConfigFile)
}

// LoadFrom loads the configuration from path, applying .env and LOGSCOPE_* overrides
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, cfg)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrFailedToParseConfig, err)
		}

		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToParseConfig, err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// registerDefaults makes every key known to viper so env overrides apply on Unmarshal
func registerDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("loader.patterns", cfg.Loader.Patterns)
	v.SetDefault("feed.poll_interval", cfg.Feed.PollInterval)
	v.SetDefault("feed.debounce", cfg.Feed.Debounce)
	v.SetDefault("store.capacity", cfg.Store.Capacity)
	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("bus.buffer", cfg.Bus.Buffer)
	v.SetDefault("telemetry.dsn", cfg.Telemetry.DSN)
	v.SetDefault("telemetry.environment", cfg.Telemetry.Environment)
	v.SetDefault("version", cfg.Version)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateLoader(); err != nil {
		return err
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	if c.Store.Capacity < 0 {
		return errors.ErrInvalidCapacity
	}

	if c.Bus.Buffer <= 0 {
		return errors.ErrInvalidBusBuffer
	}

	return nil
}

// validateLogging validates the logging output format
func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: '%s'", errors.ErrInvalidLogFormat, c.Logging.Format)
	}
}

// validateLoader validates that file patterns exist and compile
func (c *Config) validateLoader() error {
	if len(c.Loader.Patterns) == 0 {
		return errors.ErrPatternsRequired
	}

	for _, p := range c.Loader.Patterns {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("%w: '%s'", errors.ErrInvalidPattern, p)
		}
	}

	return nil
}

// validateFeed validates feed timings
func (c *Config) validateFeed() error {
	if c.Feed.PollInterval <= 0 {
		return errors.ErrInvalidPollInterval
	}

	if c.Feed.Debounce < 0 {
		return errors.ErrInvalidDebounce
	}

	return nil
}

// normalize trims and lowercases free-form values
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	patterns := c.Loader.Patterns[:0]
	for _, p := range c.Loader.Patterns {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}

	c.Loader.Patterns = patterns
}
