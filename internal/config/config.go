// Package config loads and validates mark2doc configuration from YAML
// files, with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mark2doc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxToolNameLength   = 200 // tool binary name or path
	MaxDirLength        = 4096
	MaxStyleLength      = 50 // highlight style name
	MaxDateFormatLength = 50
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "MARK2DOC_"

// Config holds all configuration for document conversion.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Figure FigureConfig `yaml:"figure"`
	Tools  ToolsConfig  `yaml:"tools"`
	PDF    PDFConfig    `yaml:"pdf"`
	Watch  WatchConfig  `yaml:"watch"`
}

// OutputConfig defines artifact destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = beside the source)
}

// RenderConfig defines rendering options shared by the targets.
type RenderConfig struct {
	WrapWidth      int    `yaml:"wrapWidth"`      // typeset source line width in display cells (0 = no wrapping)
	HighlightStyle string `yaml:"highlightStyle"` // chroma style for hypertext verbatim blocks ("" = no highlighting)
	DateFormat     string `yaml:"dateFormat"`     // fallback title date format: preset name or token format
}

// FigureConfig defines figure conversion options.
type FigureConfig struct {
	WidthThreshold float64 `yaml:"widthThreshold"` // EPS bounding-box width in points above which figures go full-width
}

// ToolsConfig names the external toolchain binaries.
type ToolsConfig struct {
	Fig2dev  string `yaml:"fig2dev"`
	Latex    string `yaml:"latex"`
	Dvipdfmx string `yaml:"dvipdfmx"`
}

// PDFConfig defines PDF production options.
type PDFConfig struct {
	Engine  string `yaml:"engine"`  // "tex" or "chrome"
	Timeout string `yaml:"timeout"` // per-conversion timeout, e.g. "2m"
}

// WatchConfig defines watch mode options.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // quiet period before a rebuild, e.g. "300ms"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			WrapWidth:      72,
			HighlightStyle: "github",
			DateFormat:     "iso",
		},
		Figure: FigureConfig{WidthThreshold: 400},
		Tools: ToolsConfig{
			Fig2dev:  "fig2dev",
			Latex:    "latex",
			Dvipdfmx: "dvipdfmx",
		},
		PDF:   PDFConfig{Engine: "tex", Timeout: "2m"},
		Watch: WatchConfig{Debounce: "300ms"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
// Values absent from the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if strings.ContainsAny(nameOrPath, "/\\") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions in order: .yaml, .yml; locations in order:
// current directory, ~/.config/mark2doc/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "mark2doc", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks field lengths, enums, and duration syntax.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"output.defaultDir", c.Output.DefaultDir, MaxDirLength},
		{"render.highlightStyle", c.Render.HighlightStyle, MaxStyleLength},
		{"render.dateFormat", c.Render.DateFormat, MaxDateFormatLength},
		{"tools.fig2dev", c.Tools.Fig2dev, MaxToolNameLength},
		{"tools.latex", c.Tools.Latex, MaxToolNameLength},
		{"tools.dvipdfmx", c.Tools.Dvipdfmx, MaxToolNameLength},
	}
	for _, ck := range checks {
		if len(ck.value) > ck.max {
			return fmt.Errorf("%w: %s (%d > %d)", ErrFieldTooLong, ck.field, len(ck.value), ck.max)
		}
	}

	if c.Render.WrapWidth < 0 {
		return fmt.Errorf("%w: render.wrapWidth must not be negative", ErrInvalidValue)
	}
	if c.Figure.WidthThreshold < 0 {
		return fmt.Errorf("%w: figure.widthThreshold must not be negative", ErrInvalidValue)
	}
	switch c.PDF.Engine {
	case "", "tex", "chrome":
	default:
		return fmt.Errorf("%w: pdf.engine %q (expected tex or chrome)", ErrInvalidValue, c.PDF.Engine)
	}
	if c.PDF.Timeout != "" {
		if _, err := time.ParseDuration(c.PDF.Timeout); err != nil {
			return fmt.Errorf("%w: pdf.timeout %q: %v", ErrInvalidValue, c.PDF.Timeout, err)
		}
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("%w: watch.debounce %q: %v", ErrInvalidValue, c.Watch.Debounce, err)
		}
	}
	return nil
}

// envKeys maps override variable names (without prefix) to setters.
var envKeys = map[string]func(*Config, string) error{
	"OUTPUT_DIR": func(c *Config, v string) error { c.Output.DefaultDir = v; return nil },
	"WRAP_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WRAP_WIDTH %q", ErrInvalidValue, v)
		}
		c.Render.WrapWidth = n
		return nil
	},
	"HIGHLIGHT_STYLE": func(c *Config, v string) error { c.Render.HighlightStyle = v; return nil },
	"DATE_FORMAT":     func(c *Config, v string) error { c.Render.DateFormat = v; return nil },
	"FIGURE_WIDTH_THRESHOLD": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: FIGURE_WIDTH_THRESHOLD %q", ErrInvalidValue, v)
		}
		c.Figure.WidthThreshold = f
		return nil
	},
	"FIG2DEV":        func(c *Config, v string) error { c.Tools.Fig2dev = v; return nil },
	"LATEX":          func(c *Config, v string) error { c.Tools.Latex = v; return nil },
	"DVIPDFMX":       func(c *Config, v string) error { c.Tools.Dvipdfmx = v; return nil },
	"PDF_ENGINE":     func(c *Config, v string) error { c.PDF.Engine = v; return nil },
	"PDF_TIMEOUT":    func(c *Config, v string) error { c.PDF.Timeout = v; return nil },
	"WATCH_DEBOUNCE": func(c *Config, v string) error { c.Watch.Debounce = v; return nil },
}

// ApplyEnv applies MARK2DOC_* overrides from environ (as returned by
// os.Environ). Unknown MARK2DOC_ variables are reported as warnings so
// typos don't silently do nothing.
func (c *Config) ApplyEnv(environ []string) (warnings []string, err error) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, EnvPrefix)
		set, known := envKeys[name]
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown variable %s ignored", key))
			continue
		}
		if err := set(c, value); err != nil {
			return warnings, err
		}
	}
	return warnings, c.Validate()
}
