// Package config loads settings for the maturity engine.
// It supports an optional YAML config file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. MATURITY_OUTPUT_DIR.
const EnvPrefix = "MATURITY"

// Config represents the complete application configuration.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// OutputConfig locates the results document.
type OutputConfig struct {
	Dir      string `mapstructure:"dir"      yaml:"dir"`
	Filename string `mapstructure:"filename" yaml:"filename"`
}

// DatabaseConfig holds the policy store settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // ":memory:" for a throwaway store
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads configuration from path (optional; empty means search
// ./config.yaml and ./config/config.yaml) and environment variables.
// A missing config file is not an error; defaults and env vars apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "./xml")
	v.SetDefault("output.filename", "MaturityDataResults.xml")

	v.SetDefault("database.path", "maturity.db")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Output.Filename == "" {
		errs = append(errs, errors.New("output.filename must not be empty"))
	}
	if strings.ContainsAny(c.Output.Filename, `/\`) {
		errs = append(errs, fmt.Errorf("output.filename %q must not contain a path separator", c.Output.Filename))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger described by the logging section.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s)
	}
}
