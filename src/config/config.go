// Package config loads logplot settings from YAML or TOML files and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

const (
	DefaultVariant      = "fric"
	DefaultWindowSize   = 100
	DefaultDPI          = 300
	DefaultWidthInches  = 10.0
	DefaultHeightInches = 7.0
	DefaultLogLevel     = "info"
)

// Config replaces the per-script constants: which log, which layout, how wide the window is.
type Config struct {
	LogFile      string        `yaml:"log_file" toml:"log_file"`
	Variant      string        `yaml:"variant" toml:"variant"`
	WindowSize   int           `yaml:"window_size" toml:"window_size"`
	OutputDir    string        `yaml:"output_dir" toml:"output_dir"`
	Role         string        `yaml:"role" toml:"role"`
	LogLevel     string        `yaml:"log_level" toml:"log_level"`
	DPI          int           `yaml:"dpi" toml:"dpi"`
	WidthInches  float64       `yaml:"width_inches" toml:"width_inches"`
	HeightInches float64       `yaml:"height_inches" toml:"height_inches"`
	Variants     []variant.Def `yaml:"variants" toml:"variants"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Variant:      DefaultVariant,
		WindowSize:   DefaultWindowSize,
		OutputDir:    ".",
		LogLevel:     DefaultLogLevel,
		DPI:          DefaultDPI,
		WidthInches:  DefaultWidthInches,
		HeightInches: DefaultHeightInches,
	}
}

// Load reads, overrides from the environment and validates a configuration file.
// An empty path yields the defaults (still subject to environment overrides).
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv("LOGPLOT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("LOGPLOT_VARIANT"); v != "" {
		c.Variant = v
	}
	if v := os.Getenv("LOGPLOT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("LOGPLOT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOGPLOT_WINDOW_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGPLOT_WINDOW_SIZE: %w", err)
		}
		c.WindowSize = n
	}
	return nil
}

// Validate checks value ranges and that every configured variant compiles.
func Validate(cfg *Config) error {
	if cfg.WindowSize < 1 {
		return fmt.Errorf("window_size: must be >= 1, got %d", cfg.WindowSize)
	}
	if cfg.DPI < 1 {
		return fmt.Errorf("dpi: must be >= 1, got %d", cfg.DPI)
	}
	if cfg.WidthInches <= 0 || cfg.HeightInches <= 0 {
		return errors.New("width_inches and height_inches must be positive")
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", cfg.LogLevel)
	}
	reg, err := variant.NewRegistry(cfg.Variants)
	if err != nil {
		return err
	}
	if _, err := reg.Lookup(cfg.Variant); err != nil {
		return fmt.Errorf("variant: %w", err)
	}
	return nil
}

// Registry returns the variant registry for the configured definitions.
func (c *Config) Registry() (*variant.Registry, error) {
	return variant.NewRegistry(c.Variants)
}

// ResolveVariant returns the selected variant.
func (c *Config) ResolveVariant() (*variant.Variant, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Lookup(c.Variant)
}

// ResolveLogFile falls back to the variant's default log path.
func (c *Config) ResolveLogFile(v *variant.Variant) string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return v.DefaultLog
}
