// Package config resolves dbcheck settings from flags, environment, a YAML
// config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved configuration of one run
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Check    CheckConfig    `mapstructure:"check"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	// URL is a postgres://, mysql:// or sqlite:// connection URL
	URL    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

type CheckConfig struct {
	// Table is the table under test; empty uses the table the expected definition names
	Table string `mapstructure:"table"`
	// Expected is a YAML definition file; empty uses the built-in users definition
	Expected string `mapstructure:"expected"`
	// Scenarios is a YAML suite file; empty uses the built-in users suite
	Scenarios   string `mapstructure:"scenarios"`
	SkipSchema  bool   `mapstructure:"skip_schema"`
	SkipInserts bool   `mapstructure:"skip_inserts"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel parses the configured log level
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Level)
	}
	return level, nil
}

const (
	// ConfigName is the config file looked up in the working directory
	ConfigName = "dbcheck"
	envPrefix  = "DBCHECK"
)

var formats = []string{"text", "markdown", "json"}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"db-url":       "database.url",
	"schema":       "database.schema",
	"table":        "check.table",
	"expected":     "check.expected",
	"scenarios":    "check.scenarios",
	"skip-schema":  "check.skip_schema",
	"skip-inserts": "check.skip_inserts",
	"format":       "output.format",
	"output":       "output.file",
	"log-level":    "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.schema", "")
	v.SetDefault("check.table", "")
	v.SetDefault("check.expected", "")
	v.SetDefault("check.scenarios", "")
	v.SetDefault("check.skip_schema", false)
	v.SetDefault("check.skip_inserts", false)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.file", "")
	v.SetDefault("log.level", "info")
}

// Load resolves the configuration. configFile may be empty, in which case
// ./dbcheck.yaml is read when present. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	if c.Check.SkipSchema && c.Check.SkipInserts {
		return fmt.Errorf("invalid config: nothing to do when both schema and inserts are skipped")
	}
	if !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("invalid config: output.format %q (must be text, markdown or json)", c.Output.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
