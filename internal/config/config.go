// Package config provides configuration loading and validation for the
// ncwd command.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	wd "github.com/reoring/withdefaults"
	"github.com/reoring/withdefaults/access"
)

// Config is the root configuration structure.
type Config struct {
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Logging      LoggingConfig      `yaml:"logging"`
	Access       AccessConfig       `yaml:"access"`
}

// CapabilitiesConfig configures the advertised with-defaults capability.
type CapabilitiesConfig struct {
	BasicMode     string   `yaml:"basic_mode"`     // "report-all", "trim" or "explicit"
	AlsoSupported []string `yaml:"also_supported"` // Further modes
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// AccessConfig configures read access rules.
type AccessConfig struct {
	Default string       `yaml:"default"` // "permit" or "deny"
	Rules   []RuleConfig `yaml:"rules"`
}

// RuleConfig is one read access rule.
type RuleConfig struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	setDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Capabilities.BasicMode == "" {
		def := wd.DefaultCapabilities()
		cfg.Capabilities.BasicMode = def.BasicMode.String()
		if cfg.Capabilities.AlsoSupported == nil {
			for _, m := range def.AlsoSupported {
				cfg.Capabilities.AlsoSupported = append(cfg.Capabilities.AlsoSupported, m.String())
			}
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Access.Default == "" {
		cfg.Access.Default = "permit"
	}
}

func validate(cfg *Config) error {
	if _, err := cfg.WithDefaults(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	if _, err := cfg.ReadFilter(); err != nil {
		return err
	}
	return nil
}

// WithDefaults converts the capabilities section.
func (cfg *Config) WithDefaults() (wd.Capabilities, error) {
	var c wd.Capabilities
	var err error
	if c.BasicMode, err = wd.ParseMode(cfg.Capabilities.BasicMode); err != nil {
		return wd.Capabilities{}, fmt.Errorf("capabilities.basic_mode: %w", err)
	}
	for _, s := range cfg.Capabilities.AlsoSupported {
		m, err := wd.ParseMode(s)
		if err != nil {
			return wd.Capabilities{}, fmt.Errorf("capabilities.also_supported: %w", err)
		}
		c.AlsoSupported = append(c.AlsoSupported, m)
	}
	if err := c.Validate(); err != nil {
		return wd.Capabilities{}, fmt.Errorf("capabilities: %w", err)
	}
	return c, nil
}

// ReadFilter converts the access section.
func (cfg *Config) ReadFilter() (*access.ReadFilter, error) {
	def, err := access.ParseAction(cfg.Access.Default)
	if err != nil {
		return nil, fmt.Errorf("access.default: %w", err)
	}
	f := &access.ReadFilter{Default: def}
	for i, r := range cfg.Access.Rules {
		if r.Path == "" {
			return nil, fmt.Errorf("access.rules[%d]: path is required", i)
		}
		a, err := access.ParseAction(r.Action)
		if err != nil {
			return nil, fmt.Errorf("access.rules[%d]: %w", i, err)
		}
		f.Rules = append(f.Rules, access.Rule{Path: r.Path, Action: a})
	}
	return f, nil
}

// Logger builds the logger described by the logging section.
func (cfg *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Logging.Format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
