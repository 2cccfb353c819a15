package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pixelstream/internal/engine"
	"pixelstream/internal/logger"
	"pixelstream/internal/processing/filters"
)

const (
	DecoderGo     = "go"
	DecoderOpenCV = "opencv"
)

// Config is the run configuration. Width and Height may be left at zero,
// in which case the frame size is taken from the input image.
type Config struct {
	Filter    filters.FilterMode `yaml:"filter" toml:"filter"`
	Threshold int                `yaml:"threshold" toml:"threshold"`
	Width     int                `yaml:"width" toml:"width"`
	Height    int                `yaml:"height" toml:"height"`
	MaxWidth  int                `yaml:"max_width" toml:"max_width"`
	MaxHeight int                `yaml:"max_height" toml:"max_height"`
	Decoder   string             `yaml:"decoder" toml:"decoder"`   // go, opencv
	Buffer    int                `yaml:"buffer" toml:"buffer"`     // stream channel capacity
	LogLevel  string             `yaml:"log_level" toml:"log_level"`
}

func Default() *Config {
	limits := engine.DefaultLimits()
	return &Config{
		Filter:    filters.ModeBypass,
		Threshold: 128,
		MaxWidth:  limits.MaxWidth,
		MaxHeight: limits.MaxHeight,
		Decoder:   DecoderGo,
		LogLevel:  "info",
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges. Width and Height are checked against the
// limits only when set. Undefined filter register values are allowed; the
// engine passes samples through for them.
func (c *Config) Validate() error {
	var errs []error

	if c.Threshold < 0 || c.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold: %d outside 0..255", c.Threshold))
	}
	if c.MaxWidth < 1 || c.MaxWidth > engine.RegisterLimit {
		errs = append(errs, fmt.Errorf("max_width: %d outside 1..%d", c.MaxWidth, engine.RegisterLimit))
	}
	if c.MaxHeight < 1 || c.MaxHeight > engine.RegisterLimit {
		errs = append(errs, fmt.Errorf("max_height: %d outside 1..%d", c.MaxHeight, engine.RegisterLimit))
	}
	if c.Width < 0 || c.Width > c.MaxWidth {
		errs = append(errs, fmt.Errorf("width: %d outside 0..%d", c.Width, c.MaxWidth))
	}
	if c.Height < 0 || c.Height > c.MaxHeight {
		errs = append(errs, fmt.Errorf("height: %d outside 0..%d", c.Height, c.MaxHeight))
	}
	if c.Decoder != DecoderGo && c.Decoder != DecoderOpenCV {
		errs = append(errs, fmt.Errorf("decoder: %q is neither %q nor %q", c.Decoder, DecoderGo, DecoderOpenCV))
	}
	if c.Buffer < 0 {
		errs = append(errs, fmt.Errorf("buffer: %d is negative", c.Buffer))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) Limits() engine.Limits {
	return engine.Limits{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

// EngineConfig builds the frame configuration for an image of the given
// size, unless the file pins the size explicitly.
func (c *Config) EngineConfig(width, height int) engine.Config {
	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	return engine.Config{
		Filter:    c.Filter,
		Threshold: uint8(c.Threshold),
		Width:     width,
		Height:    height,
	}
}

func (c *Config) Level() logger.LogLevel {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.InfoLevel
	}
	return level
}
