// Package config loads the chart service settings from a TOML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/prometheus/common/promslog"
)

const (
	defaultListen          = ":8080"
	defaultMaxBodyBytes    = 1 << 20
	defaultRasterTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds the chart service configuration
type Config struct {
	// Listen is the HTTP listen address. Default: ":8080"
	Listen string `toml:"listen,omitempty"`

	// LogLevel is one of debug, info, warn, error. Default: "info"
	LogLevel string `toml:"log_level,omitempty"`

	// LogFormat is logfmt or json. Default: "logfmt"
	LogFormat string `toml:"log_format,omitempty"`

	// MaxBodyBytes caps the size of a chart request body. Default: 1 MiB
	MaxBodyBytes int64 `toml:"max_body_bytes,omitempty"`

	// Rasterize enables PNG/JPEG output through headless Chrome.
	// Default: false (SVG only)
	Rasterize bool `toml:"rasterize,omitempty"`

	// ChromePath overrides the Chrome executable lookup.
	ChromePath string `toml:"chrome_path,omitempty"`

	// NoSandbox disables the Chrome sandbox, needed when running as root.
	NoSandbox bool `toml:"no_sandbox,omitempty"`

	// RasterTimeout bounds a single rasterization. Default: 30s
	RasterTimeout Duration `toml:"raster_timeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server. Default: 10s
	ShutdownTimeout Duration `toml:"shutdown_timeout,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Listen:          defaultListen,
		LogLevel:        "info",
		LogFormat:       "logfmt",
		MaxBodyBytes:    defaultMaxBodyBytes,
		RasterTimeout:   Duration{defaultRasterTimeout},
		ShutdownTimeout: Duration{defaultShutdownTimeout},
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads the TOML file at path (skipped when empty) over the defaults,
// then applies CHART_* environment variables.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment.
func LoadWithEnv(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error unless required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("CHART_LISTEN", &c.Listen)
	str("CHART_LOG_LEVEL", &c.LogLevel)
	str("CHART_LOG_FORMAT", &c.LogFormat)
	str("CHART_CHROME_PATH", &c.ChromePath)

	if err := boolean("CHART_RASTERIZE", &c.Rasterize); err != nil {
		return err
	}
	if err := boolean("CHART_NO_SANDBOX", &c.NoSandbox); err != nil {
		return err
	}
	if v, ok := lookup("CHART_MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CHART_MAX_BODY_BYTES: %w", err)
		}
		c.MaxBodyBytes = n
	}
	if v, ok := lookup("CHART_RASTER_TIMEOUT"); ok && v != "" {
		if err := c.RasterTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid CHART_RASTER_TIMEOUT: %w", err)
		}
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if err := promslog.NewLevel().Set(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if err := promslog.NewFormat().Set(c.LogFormat); err != nil {
		return fmt.Errorf("invalid log format: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RasterTimeout.Duration < 0 {
		return fmt.Errorf("raster_timeout must not be negative, got %s", c.RasterTimeout)
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Logger builds a slog logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level := promslog.NewLevel()
	if err := level.Set(c.LogLevel); err != nil {
		return nil, err
	}
	format := promslog.NewFormat()
	if err := format.Set(c.LogFormat); err != nil {
		return nil, err
	}
	return promslog.New(&promslog.Config{
		Level:  level,
		Format: format,
		Style:  promslog.GoKitStyle,
		Writer: w,
	}), nil
}
