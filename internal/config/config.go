// Package config loads the legaldocs runtime configuration: built-in
// defaults, then an optional YAML file, then environment variables (after
// loading optional .env files).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/intake"
	"github.com/goliatone/go-legaldocs/pkg/layout"
)

// Environment variables read by Load.
const (
	EnvExportDirectory = "EXPORT_DIRECTORY"
	EnvPageSize        = "LEGALDOCS_PAGE_SIZE"
	EnvVariant         = "LEGALDOCS_THEME_VARIANT"
	EnvHeaderFooter    = "LEGALDOCS_HEADER_FOOTER"
	EnvLogLevel        = "LEGALDOCS_LOG_LEVEL"
	EnvPresets         = "LEGALDOCS_PRESETS"
	EnvOptionalFields  = "LEGALDOCS_ASK_OPTIONAL"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Export struct {
		Directory string `yaml:"directory"`
	} `yaml:"export"`
	Layout struct {
		PageSize     string         `yaml:"page_size"`
		Margins      layout.Margins `yaml:"margins"`
		Variant      string         `yaml:"variant"`
		HeaderFooter bool           `yaml:"header_footer"`
	} `yaml:"layout"`
	Intake    intake.Limits `yaml:"intake"`
	Interview struct {
		// AskOptional prompts for optional fields as well as missing
		// required ones.
		AskOptional bool `yaml:"ask_optional"`
	} `yaml:"interview"`
	// Presets is an optional YAML preset file for the preset transformer.
	Presets string `yaml:"presets"`
	Log     struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Export.Directory = export.DefaultDirectory
	cfg.Layout.PageSize = layout.A4.Name
	cfg.Layout.Margins = layout.DefaultMargins()
	cfg.Layout.Variant = layout.VariantDefault
	cfg.Layout.HeaderFooter = true
	cfg.Intake = intake.DefaultLimits()
	cfg.Log.Level = "info"
	return cfg
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFiles []string
	lookup   func(string) (string, bool)
}

// WithEnvFiles replaces the .env files Load reads. Missing files are
// ignored. Pass none to skip .env loading.
func WithEnvFiles(files ...string) Option {
	return func(l *loader) {
		l.envFiles = files
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// Load builds the configuration. An empty path skips the YAML file; a path
// that cannot be read is an error. Values already present in the process
// environment win over .env files.
func Load(path string, options ...Option) (*Config, error) {
	l := &loader{envFiles: []string{".env"}, lookup: os.LookupEnv}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	for _, file := range l.envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.overlay(l.lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlay(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	boolean := func(key string, dst *bool) error {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, value)
		}
		*dst = parsed
		return nil
	}

	str(EnvExportDirectory, &c.Export.Directory)
	str(EnvPageSize, &c.Layout.PageSize)
	str(EnvVariant, &c.Layout.Variant)
	str(EnvLogLevel, &c.Log.Level)
	str(EnvPresets, &c.Presets)
	if err := boolean(EnvHeaderFooter, &c.Layout.HeaderFooter); err != nil {
		return err
	}
	return boolean(EnvOptionalFields, &c.Interview.AskOptional)
}

// Validate reports every problem in one error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Export.Directory) == "" {
		problems = append(problems, "export.directory is required")
	}
	size, ok := layout.PageSizeByName(c.Layout.PageSize)
	if !ok {
		problems = append(problems, fmt.Sprintf("layout.page_size %q is not A4 or Letter", c.Layout.PageSize))
	}
	m := c.Layout.Margins
	if m.Left < 0 || m.Right < 0 || m.Top < 0 || m.Bottom < 0 {
		problems = append(problems, "layout.margins must not be negative")
	} else if ok && (m.Left+m.Right >= size.Width || m.Top+m.Bottom >= size.Height) {
		problems = append(problems, "layout.margins leave no printable area")
	}
	if _, err := layout.Selection(c.Layout.Variant); err != nil {
		problems = append(problems, fmt.Sprintf("layout.variant: %v", err))
	}
	if c.Intake.QueryMin <= 0 || c.Intake.QueryMax <= c.Intake.QueryMin {
		problems = append(problems, "intake.query_min must be positive and below query_max")
	}
	if c.Intake.DocumentMin <= 0 || c.Intake.DocumentMax <= c.Intake.DocumentMin {
		problems = append(problems, "intake.document_min must be positive and below document_max")
	}
	if c.Intake.EntityCap <= 0 {
		problems = append(problems, "intake.entity_cap must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel parses Log.Level (debug, info, warn, error).
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is not a slog level", c.Log.Level)
	}
	return level, nil
}

// LayoutOptions converts the layout section. Call after Validate.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if size, ok := layout.PageSizeByName(c.Layout.PageSize); ok {
		opts.PageSize = size
	}
	opts.Margins = c.Layout.Margins
	opts.Variant = c.Layout.Variant
	opts.HeaderFooter = c.Layout.HeaderFooter
	return opts
}
