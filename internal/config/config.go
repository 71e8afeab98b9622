package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/yamlutil"
	"github.com/alnah/go-mdmath/mathext"
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
	MaxPathLength     = 4096
	MaxURLLength      = 2048 // Browser limit
	MaxStyleLength    = 64 * 1024
	MaxTOCTitleLength = 100
)

// AppDirName is the directory under os.UserConfigDir searched for named configs.
const AppDirName = "go-mdmath"

// Config holds all configuration for document generation.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	CSS    CSSConfig    `yaml:"css"`
	Assets AssetsConfig `yaml:"assets"`
	Math   MathConfig   `yaml:"math"`
	TOC    TOCConfig    `yaml:"toc"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to source)
}

// CSSConfig defines styling options.
type CSSConfig struct {
	Style     string `yaml:"style"`     // Style name, file path or CSS (empty = no CSS)
	Highlight string `yaml:"highlight"` // Chroma style for code blocks (empty = github)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Directory with styles/ overrides (empty = embedded only)
}

// MathConfig defines math recognition and typesetting options.
type MathConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Delimiters     string `yaml:"delimiters"`     // "all", "dollar", "bracket" (empty = all)
	InlinePriority int    `yaml:"inlinePriority"` // 0 = default
	BlockPriority  int    `yaml:"blockPriority"`  // 0 = default
	MathJax        bool   `yaml:"mathjax"`        // inject the loader when math is present
	MathJaxURL     string `yaml:"mathjaxURL"`     // empty = built-in CDN URL
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MinDepth int    `yaml:"minDepth"` // 1-6, default 2
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("css.style", c.CSS.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := c.Math.validate(); err != nil {
		return err
	}

	if err := validateFieldLength("toc.title", c.TOC.Title, MaxTOCTitleLength); err != nil {
		return err
	}
	if c.TOC.Enabled {
		if err := validateDepth("toc.minDepth", c.TOC.MinDepth); err != nil {
			return err
		}
		if err := validateDepth("toc.maxDepth", c.TOC.MaxDepth); err != nil {
			return err
		}
		if c.TOC.MinDepth != 0 && c.TOC.MaxDepth != 0 && c.TOC.MinDepth > c.TOC.MaxDepth {
			return fmt.Errorf("%w: toc.minDepth %d exceeds toc.maxDepth %d", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
		}
	}

	return nil
}

func (m *MathConfig) validate() error {
	if m.Delimiters != "" {
		if _, ok := mathext.LookupDelimiters(m.Delimiters); !ok {
			return fmt.Errorf("%w: math.delimiters: %w: unknown set %q (want %s)",
				ErrInvalidValue, mathext.ErrInvalidDelimiters, m.Delimiters, strings.Join(mathext.DelimiterNames(), ", "))
		}
	}
	if err := mathext.ValidatePriorities(m.InlinePriority, m.BlockPriority); err != nil {
		return fmt.Errorf("%w: math: %w", ErrInvalidValue, err)
	}
	if err := validateFieldLength("math.mathjaxURL", m.MathJaxURL, MaxURLLength); err != nil {
		return err
	}
	if m.MathJaxURL != "" && !fileutil.IsURL(m.MathJaxURL) && !fileutil.IsFilePath(m.MathJaxURL) {
		return fmt.Errorf("%w: math.mathjaxURL: %q is neither an http(s) URL nor a path", ErrInvalidValue, m.MathJaxURL)
	}
	return nil
}

// DelimiterSet resolves the configured delimiter name.
// Call after Validate; an invalid name falls back to the default set.
func (m *MathConfig) DelimiterSet() *mathext.Delimiters {
	if d, ok := mathext.LookupDelimiters(m.Delimiters); ok {
		return d
	}
	return mathext.DefaultDelimiters
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDepth accepts 0 (default) or a heading level.
func validateDepth(fieldName string, depth int) error {
	if depth != 0 && (depth < 1 || depth > 6) {
		return fmt.Errorf("%w: %s must be between 1 and 6, got %d", ErrInvalidValue, fieldName, depth)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// math recognized with every delimiter and typeset by MathJax, no style,
// no TOC.
func DefaultConfig() *Config {
	return &Config{
		Math: MathConfig{
			Enabled:    true,
			Delimiters: mathext.DefaultDelimiters.Name,
			MathJax:    true,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

// NotFoundError carries the paths searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q, tried %s", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap makes errors.Is(err, ErrConfigNotFound) hold.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, os.UserConfigDir()/go-mdmath/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}
