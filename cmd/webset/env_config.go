package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const envPrefix = "WEBSET_"

// defaultEnvFile is read from the working directory when --env-file is not given.
const defaultEnvFile = ".env"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // WEBSET_CONFIG: config file name or path
	Style      string        // WEBSET_STYLE: style name or CSS path
	Timeout    time.Duration // WEBSET_TIMEOUT: page load timeout
	PageSize   string        // WEBSET_PAGE_SIZE: letter, a4, legal
	Stability  time.Duration // WEBSET_STABILITY: watch debounce window
	AssetPath  string        // WEBSET_ASSET_PATH: custom asset directory
}

// knownEnvVars lists valid WEBSET_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WEBSET_CONFIG":     true,
	"WEBSET_STYLE":      true,
	"WEBSET_TIMEOUT":    true,
	"WEBSET_PAGE_SIZE":  true,
	"WEBSET_STABILITY":  true,
	"WEBSET_ASSET_PATH": true,
}

// envSource looks variables up in the process environment first, then in
// the WEBSET_* entries of a .env file.
type envSource struct {
	lookup  func(string) (string, bool)
	environ func() []string
	dotenv  map[string]string
}

func (s *envSource) get(key string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return s.dotenv[key]
}

// names returns every WEBSET_* name visible through s, sorted.
func (s *envSource) names() []string {
	seen := make(map[string]bool)
	for _, kv := range s.environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range s.dotenv {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readDotEnv reads the WEBSET_* entries of a .env file. A missing default
// file is not an error; a missing explicit file is.
func readDotEnv(path string, explicit bool) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	filtered := make(map[string]string, len(values))
	for k, v := range values {
		if strings.HasPrefix(k, envPrefix) {
			filtered[k] = v
		}
	}
	return filtered, nil
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations are ignored with a warning.
func loadEnvConfig(src *envSource, logger *log.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.get("WEBSET_CONFIG"),
		Style:      src.get("WEBSET_STYLE"),
		PageSize:   src.get("WEBSET_PAGE_SIZE"),
		AssetPath:  src.get("WEBSET_ASSET_PATH"),
	}
	cfg.Timeout = envDuration(src, "WEBSET_TIMEOUT", logger)
	cfg.Stability = envDuration(src, "WEBSET_STABILITY", logger)
	return cfg
}

func envDuration(src *envSource, key string, logger *log.Logger) time.Duration {
	raw := src.get(key)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("ignoring invalid duration", "var", key, "value", raw)
		return 0
	}
	return d
}

// warnUnknownEnvVars logs warnings for unrecognized WEBSET_* variables.
// Helps catch typos like WEBSET_TIMEOUTS instead of WEBSET_TIMEOUT.
func warnUnknownEnvVars(src *envSource, logger *log.Logger) {
	for _, name := range src.names() {
		if !knownEnvVars[name] {
			logger.Warnf("unknown environment variable %s (typo?)", name)
		}
	}
}
