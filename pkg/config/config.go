// Package config loads otium settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "OTIUM_CONFIG"

// Config holds the complete otium configuration
type Config struct {
	Translate TranslateConfig `toml:"translate" yaml:"translate"`
	Run       RunConfig       `toml:"run" yaml:"run"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Cache     CacheConfig     `toml:"cache" yaml:"cache"`

	// Path of the file this configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// TranslateConfig controls JavaScript generation
type TranslateConfig struct {
	Annotate bool `toml:"annotate" yaml:"annotate"`
	Prelude  bool `toml:"prelude" yaml:"prelude"`
}

// RunConfig controls the embedded JavaScript runtime
type RunConfig struct {
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// LogConfig controls log output
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// CacheConfig controls the translation cache
type CacheConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled"`
	Path    string   `toml:"path" yaml:"path"`
	MaxAge  Duration `toml:"max_age" yaml:"max_age"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{
		Translate: TranslateConfig{Annotate: true, Prelude: true},
		Run:       RunConfig{Timeout: Duration{5 * time.Second}},
		Cache:     CacheConfig{Enabled: false},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
// Keys missing from the file keep their default values. An explicit
// run.timeout of 0 disables the limit.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.Source = path
	return cfg, nil
}

// SearchPaths returns the locations checked when OTIUM_CONFIG is unset.
func SearchPaths() []string {
	return []string{
		"./otium.toml",
		"./otium.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/otium/config.toml"),
	}
}

// LoadFromEnv loads configuration from the OTIUM_CONFIG environment
// variable or the first existing search path. Defaults are returned when
// neither names a file.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(os.Getenv("HOME"), ".cache/otium/translations.db")
	}
	if c.Cache.MaxAge.Duration == 0 {
		c.Cache.MaxAge.Duration = 7 * 24 * time.Hour
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Cache.Path = os.ExpandEnv(c.Cache.Path)
}
