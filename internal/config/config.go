// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
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
	MaxStyleLength    = 1024 // style name or CSS path
	MaxPathLength     = 4096
	MaxPageSizeLength = 10 // "letter", "a4", "legal"
)

// AppName names the user config directory: $XDG_CONFIG_HOME/go-webset.
const AppName = "go-webset"

// Config mirrors the YAML file. Zero values mean "not set"; defaults are
// applied when the run configuration is resolved.
type Config struct {
	Preview *bool        `yaml:"preview"` // nil = default (on)
	Style   string       `yaml:"style"`   // style name or CSS file path
	Watch   WatchConfig  `yaml:"watch"`
	Assets  AssetsConfig `yaml:"assets"`
	Page    PageConfig   `yaml:"page"`
	Render  RenderConfig `yaml:"render"`
}

// WatchConfig defines watch mode options.
type WatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Stability string `yaml:"stability"` // duration, e.g. "500ms"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size   string  `yaml:"size"`   // "letter", "a4", "legal"
	Margin float64 `yaml:"margin"` // inches
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // duration, e.g. "30s"
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("style", c.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}

	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
		default:
			return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidValue, c.Page.Size)
		}
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin %.2f", ErrInvalidValue, c.Page.Margin)
	}

	if _, err := c.StabilityDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses render.timeout. Returns 0 when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("render.timeout", c.Render.Timeout)
}

// StabilityDuration parses watch.stability. Returns 0 when unset.
func (c *Config) StabilityDuration() (time.Duration, error) {
	return parseDuration("watch.stability", c.Watch.Stability)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s %q (want a positive duration like 30s)", ErrInvalidValue, field, s)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every setting falls through
// to its built-in default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name, relative
// to the process working directory. See LoadConfigIn.
func LoadConfig(nameOrPath string) (*Config, error) {
	return LoadConfigIn("", nameOrPath)
}

// LoadConfigIn loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path;
// relative paths resolve against dir. Otherwise, it's treated as a config
// name and searched in dir, then in the user config directory. An empty dir
// means the process working directory.
// Returns error if the file is not found (no silent fallback).
func LoadConfigIn(dir, nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
		if dir != "" && !filepath.IsAbs(configPath) {
			configPath = filepath.Join(dir, configPath)
		}
	} else {
		configPath, err = resolveConfigPath(dir, nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Tried: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NotFoundError lists the locations searched for a config file.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

// Unwrap makes errors.Is(err, ErrConfigNotFound) match.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: dir (or the current directory), $XDG_CONFIG_HOME/go-webset/
func resolveConfigPath(dir, name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := filepath.Join(dir, name+ext)
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Tried: triedPaths}
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
