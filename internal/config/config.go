package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/karanveersp/utilfuncs/filesystem"
	"github.com/karanveersp/utilfuncs/formats"
	"github.com/karanveersp/utilfuncs/internal/logging"
	"github.com/karanveersp/utilfuncs/resilience"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

var ErrUnsupportedConfig = errors.New("unsupported config file type")

// Config holds all application configuration.
type Config struct {
	Logging LogConfig     `yaml:"logging" toml:"logging"`
	Archive ArchiveConfig `yaml:"archive" toml:"archive"`
	Retry   RetryConfig   `yaml:"retry" toml:"retry"`
	CSV     CSVConfig     `yaml:"csv" toml:"csv"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// ArchiveConfig holds archive defaults.
type ArchiveConfig struct {
	Format string `envconfig:"UTILFUNCS_ARCHIVE_FORMAT" yaml:"format" toml:"format"`
}

// RetryConfig holds the retry policy used by the command.
type RetryConfig struct {
	Match    string   `envconfig:"UTILFUNCS_RETRY_MATCH" yaml:"match" toml:"match"`
	Interval Duration `envconfig:"UTILFUNCS_RETRY_INTERVAL" yaml:"interval" toml:"interval"`
}

// CSVConfig holds delimited file settings.
type CSVConfig struct {
	Delimiter string `envconfig:"UTILFUNCS_CSV_DELIMITER" yaml:"delimiter" toml:"delimiter"`
}

// Duration is a time.Duration read from strings such as "5s" or "1m30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load loads configuration from environment variables over Default.
func Load() (*Config, error) {
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) file over Default,
// then applies environment variables on top. Keys missing from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Archive: ArchiveConfig{
			Format: "zip",
		},
		Retry: RetryConfig{
			Interval: Duration(5 * time.Second),
		},
		CSV: CSVConfig{
			Delimiter: ",",
		},
	}
}

// Validate checks every setting that is parsed lazily.
func (c *Config) Validate() error {
	if _, err := c.ArchiveFormat(); err != nil {
		return err
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if c.Retry.Interval < 0 {
		return fmt.Errorf("retry interval %s is negative", time.Duration(c.Retry.Interval))
	}
	return nil
}

// LoggerConfig returns the logger configuration for c.
func (c *Config) LoggerConfig() logging.Config {
	base := logging.DefaultConfig()
	base.Level = c.Logging.Level
	base.Development = c.Logging.Development
	return base
}

// ArchiveFormat parses the configured archive format.
func (c *Config) ArchiveFormat() (filesystem.Format, error) {
	return filesystem.ParseFormat(c.Archive.Format)
}

// Delimiter parses the configured CSV delimiter.
func (c *Config) Delimiter() (rune, error) {
	return formats.ParseDelimiter(c.CSV.Delimiter)
}

// RetryPolicy builds the retry policy described by c.
func (c *Config) RetryPolicy(log *zap.Logger) resilience.Policy {
	return resilience.Policy{
		Match:    c.Retry.Match,
		Interval: time.Duration(c.Retry.Interval),
		Logger:   log,
	}
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}
