package main

import (
	"errors"

	webset "github.com/alnah/go-webset"
	"github.com/alnah/go-webset/internal/config"
)

// defaultConfigName is looked up silently when no config is requested.
const defaultConfigName = "webset"

// loadConfig loads the config named by --config or WEBSET_CONFIG, relative to
// cwd. With neither set, webset.yaml is used if present and defaults apply
// otherwise.
func loadConfig(flagValue string, env *envConfig, cwd string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		return config.LoadConfigIn(cwd, name)
	}

	cfg, err := config.LoadConfigIn(cwd, defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// buildOptions merges flags, environment and config file into run options
// and returns the asset directory. Precedence: flags > env > config > defaults.
func buildOptions(f *cliFlags, args []string, env *envConfig, cfg *config.Config) (webset.Options, string) {
	opts := webset.DefaultOptions()
	if len(args) > 0 {
		opts.Input = args[0]
		opts.ExtraWatch = args[1:]
	}
	opts.Output = f.output

	// Config file. Values were validated by config.LoadConfig.
	if cfg.Preview != nil {
		opts.Preview = *cfg.Preview
	}
	opts.Watch = cfg.Watch.Enabled
	opts.Style = cfg.Style
	opts.PageFormat = cfg.Page.Size
	opts.Margin = cfg.Page.Margin
	opts.Timeout, _ = cfg.TimeoutDuration()
	opts.Stability, _ = cfg.StabilityDuration()
	assetPath := cfg.Assets.BasePath

	// Environment
	opts.Style = firstNonEmpty(env.Style, opts.Style)
	opts.PageFormat = firstNonEmpty(env.PageSize, opts.PageFormat)
	assetPath = firstNonEmpty(env.AssetPath, assetPath)
	if env.Timeout > 0 {
		opts.Timeout = env.Timeout
	}
	if env.Stability > 0 {
		opts.Stability = env.Stability
	}

	// Flags
	if f.changed("preview") {
		opts.Preview = f.preview
	}
	if f.changed("watch") {
		opts.Watch = f.watch
	}
	opts.Style = firstNonEmpty(f.style, opts.Style)
	opts.PageFormat = firstNonEmpty(f.page.size, opts.PageFormat)
	assetPath = firstNonEmpty(f.assetPath, assetPath)
	if f.changed("margin") {
		opts.Margin = f.page.margin
	}
	if f.changed("timeout") {
		opts.Timeout = f.timeout
	}
	if f.changed("stability") {
		opts.Stability = f.stability
	}

	return opts, assetPath
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
