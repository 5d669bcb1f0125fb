// Package config loads the optional sqlite-hashes TOML configuration file.
//
// Example:
//
//	[functions]
//	algorithms = ["md5", "sha256"]   # empty: all
//	hex = true
//	aggregate = true
//
//	[log]
//	level = "info"    # debug|info|warn|error
//	format = "text"   # text|json
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// Config is the decoded configuration file.
type Config struct {
	Functions FunctionsConfig `toml:"functions"`
	Log       LogConfig       `toml:"log"`
}

// FunctionsConfig selects the SQL functions to install.
type FunctionsConfig struct {
	Algorithms []string `toml:"algorithms"`
	Hex        bool     `toml:"hex"`
	Aggregate  bool     `toml:"aggregate"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Functions: FunctionsConfig{
			Hex:       true,
			Aggregate: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of Default. Keys the file sets override the
// defaults; unknown keys are a *errors.ParseError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return Parse(path, string(data))
}

// Parse decodes TOML text on top of Default. name is used in errors only.
func Parse(name, data string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.NewParse("TOML", name, err.Error())
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.NewParse("TOML", name, "unknown keys: "+strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks algorithm names and log settings.
func (c *Config) Validate() error {
	for _, name := range c.Functions.Algorithms {
		if _, err := digest.Lookup(name); err != nil {
			return errors.NewValidation("functions.algorithms", "unknown algorithm "+name)
		}
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return errors.NewValidation("log.level", "must be debug, info, warn or error, got "+c.Log.Level)
	}
	if _, ok := logging.ParseFormat(c.Log.Format); !ok {
		return errors.NewValidation("log.format", "must be text or json, got "+c.Log.Format)
	}
	return nil
}

// FunctionOptions converts the [functions] table to registry options.
func (c *Config) FunctionOptions() functions.Options {
	return functions.Options{
		Algorithms: append([]string(nil), c.Functions.Algorithms...),
		Hex:        c.Functions.Hex,
		Aggregate:  c.Functions.Aggregate,
	}
}

// LogLevel returns the parsed log level, LevelInfo if it is invalid.
func (c *Config) LogLevel() logging.Level {
	level, ok := logging.ParseLevel(c.Log.Level)
	if !ok {
		return logging.LevelInfo
	}
	return level
}

// LogFormat returns the parsed log format, FormatText if it is invalid.
func (c *Config) LogFormat() logging.Format {
	format, ok := logging.ParseFormat(c.Log.Format)
	if !ok {
		return logging.FormatText
	}
	return format
}
