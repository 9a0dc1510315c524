// Package config holds the settings of a collation run. Values come from a
// YAML file, then environment variables, then command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperCollate/core/apparatus"
	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/internal/collatex"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
	"github.com/FocuswithJustin/JuniperCollate/internal/validation"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "collate.yaml"

// Config holds all collation settings.
type Config struct {
	// Prefix names the input files, e.g. "marculf_2".
	Prefix string `yaml:"prefix"`
	// Baseline is the siglum printed as running text.
	Baseline string `yaml:"baseline"`
	// Folder contains txt_from_XML, collatex_json_input and collatex_output.
	Folder string `yaml:"folder"`
	// Special also collates txt_from_XML/special into a separate CSV.
	Special bool `yaml:"special"`
	// Stub is an opening template file; empty uses the built-in one.
	Stub string `yaml:"stub,omitempty"`

	MissingLabel  string `yaml:"missing_label"`
	FootnoteStart int    `yaml:"footnote_start"`

	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the CollateX invocation.
type EngineConfig struct {
	Java string `yaml:"java"`
	Jar  string `yaml:"jar"`
	// Timeout is a Go duration; empty or "0" means no limit.
	Timeout string `yaml:"timeout,omitempty"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Folder:        ".",
		MissingLabel:  apparatus.DefaultMissingLabel,
		FootnoteStart: 1,
		Engine: EngineConfig{
			Java: collatex.DefaultJava,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("COLLATE_JAVA"); v != "" {
		c.Engine.Java = v
	}
	if v := os.Getenv("COLLATE_JAR"); v != "" {
		c.Engine.Jar = v
	}
	if v := os.Getenv("COLLATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("COLLATE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// EngineTimeout returns the engine timeout; 0 means no limit.
func (c *Config) EngineTimeout() (time.Duration, error) {
	if c.Engine.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid engine timeout %q", c.Engine.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid engine timeout %q: negative", c.Engine.Timeout)
	}
	return d, nil
}

// InitLogging configures the global logger from the logging section.
func (c *Config) InitLogging() error {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// Validate checks the settings needed to build an apparatus.
func (c *Config) Validate() error {
	if err := validation.ValidatePrefix(c.Prefix); err != nil {
		return err
	}
	if err := validation.ValidateSiglum(c.Baseline); err != nil {
		return errors.Wrap(err, "baseline")
	}
	if err := validation.ValidatePath(c.Folder); err != nil {
		return errors.Wrap(err, "folder")
	}
	if c.Stub != "" {
		if err := validation.ValidatePath(c.Stub); err != nil {
			return errors.Wrap(err, "stub")
		}
	}
	if c.FootnoteStart < 1 {
		return fmt.Errorf("footnote_start must be at least 1, got %d", c.FootnoteStart)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}

// ValidateEngine checks the settings needed to run the alignment engine.
func (c *Config) ValidateEngine() error {
	if c.Engine.Jar == "" {
		return fmt.Errorf("CollateX jar not configured (set engine.jar, COLLATE_JAR or --jar)")
	}
	if err := validation.ValidatePath(c.Engine.Jar); err != nil {
		return errors.Wrap(err, "jar")
	}
	if _, err := c.EngineTimeout(); err != nil {
		return err
	}
	return nil
}
