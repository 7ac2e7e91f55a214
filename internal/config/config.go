// Package config loads and validates the smokelog configuration file.
//
// The file is YAML; the effective configuration (after defaults) is
// validated against an embedded CUE schema before use, so every consumer
// can assume a well-formed value.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// schema is the CUE contract the effective configuration must satisfy.
const schema = `
#Config: {
	db_path:   string & !=""
	timezone:  string & !=""
	log_level: "debug" | "info" | "warn" | "error"
	user?: {
		email:         =~"^[^@\\s]+@[^@\\s]+$"
		display_name?: string
	}
}
`

// UserConfig is the optional local user block backing the session provider.
type UserConfig struct {
	Email       string `yaml:"email" json:"email"`
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
}

// Config is the effective smokelog configuration.
type Config struct {
	DBPath   string      `yaml:"db_path" json:"db_path"`
	Timezone string      `yaml:"timezone" json:"timezone"`
	LogLevel string      `yaml:"log_level" json:"log_level"`
	User     *UserConfig `yaml:"user,omitempty" json:"user,omitempty"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{
		DBPath:   defaultDBPath(),
		Timezone: "Local",
		LogLevel: "info",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "smokelog.yaml"
	}
	return filepath.Join(home, ".smokelog", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "smokelog.db"
	}
	return filepath.Join(home, ".smokelog", "smokelog.db")
}

// Load reads the configuration file at path, applies defaults for absent
// fields, and validates the result against the CUE schema.
//
// A missing file is not an error: the defaults are returned. A malformed or
// invalid file is an error - running with a half-understood config would
// silently misplace the user's data.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Re-apply defaults for fields the file set to empty.
	def := Default()
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.Timezone == "" {
		cfg.Timezone = def.Timezone
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the effective configuration against the CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	configDef := schemaVal.LookupPath(cue.ParsePath("#Config"))
	if err := configDef.Err(); err != nil {
		return fmt.Errorf("lookup config definition: %w", err)
	}

	val := ctx.Encode(c)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := configDef.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}

	// CUE cannot know which timezone names the local zone database holds.
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the configured IANA timezone name.
// "Local" resolves to the system zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
