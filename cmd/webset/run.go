package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	webset "github.com/alnah/go-webset"
	"github.com/alnah/go-webset/internal/assets"
	"github.com/alnah/go-webset/internal/config"
	"github.com/alnah/go-webset/internal/hints"
	"github.com/alnah/go-webset/internal/watch"
)

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	f, positional, err := parseFlags(args)
	if err != nil {
		logger := newLogger(env.Stderr, log.InfoLevel)
		logger.Error(fmt.Errorf("%w: %v", errUsage, err))
		printUsage(env.Stderr)
		return ExitUsage
	}

	if f.common.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if f.common.version {
		fmt.Fprintf(env.Stdout, "webset %s\n", Version)
		return ExitSuccess
	}
	if f.common.completion != "" {
		if err := GenerateCompletion(env.Stdout, Shell(f.common.completion)); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitUsage
		}
		return ExitSuccess
	}
	if f.common.doctor {
		return runDoctor(env, f.common.json)
	}

	logger := newLogger(env.Stderr, logLevel(f.common.quiet, f.common.verbose))

	cfg, err := resolve(f, positional, env, logger)
	if err != nil {
		reportError(logger, err)
		return exitCodeFor(err)
	}

	styles, err := webset.NewStyleLoader(cfg.assetPath)
	if err != nil {
		reportError(logger, err)
		return exitCodeFor(err)
	}

	runner := webset.NewRunner(
		webset.WithLogger(logger),
		webset.WithStyleLoader(styles),
		webset.WithPDFConverter(env.NewConverter()),
	)
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Debug("closing browser", "err", err)
		}
	}()

	ctx, stop := notifyContext(ctx)
	defer stop()

	if _, err := runner.Run(ctx, cfg.run); err != nil {
		if ctx.Err() != nil {
			return ExitGeneral
		}
		reportError(logger, err)
		return exitCodeFor(err)
	}

	if !cfg.run.Watch {
		return ExitSuccess
	}

	return watchAndRun(ctx, runner, cfg.run, logger)
}

// resolvedConfig is the outcome of merging flags, env and config file.
type resolvedConfig struct {
	run       webset.RunConfig
	assetPath string
}

// resolve merges every configuration source into a RunConfig.
func resolve(f *cliFlags, positional []string, env *Environment, logger *log.Logger) (*resolvedConfig, error) {
	cwd, err := env.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	envFile, explicit := f.common.envFile, true
	if envFile == "" {
		envFile, explicit = defaultEnvFile, false
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(cwd, envFile)
	}
	dotenv, err := readDotEnv(envFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	src := &envSource{lookup: env.LookupEnv, environ: env.Environ, dotenv: dotenv}
	warnUnknownEnvVars(src, logger)
	envCfg := loadEnvConfig(src, logger)

	fileCfg, err := loadConfig(f.common.config, envCfg, cwd)
	if err != nil {
		return nil, err
	}

	opts, assetPath := buildOptions(f, positional, envCfg, fileCfg)
	if assetPath != "" && !filepath.IsAbs(assetPath) {
		assetPath = filepath.Join(cwd, assetPath)
	}

	runCfg, err := webset.ResolveRunConfig(opts, cwd)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved", "input", runCfg.InputPath, "output", runCfg.OutputPath,
		"preview", runCfg.Preview, "watch", runCfg.Watch, "style", runCfg.Style)

	return &resolvedConfig{run: runCfg, assetPath: assetPath}, nil
}

// watchAndRun re-runs the pipeline on every settled change until ctx is
// cancelled. Failed runs are logged by the watcher and never exit.
func watchAndRun(ctx context.Context, runner *webset.Runner, cfg webset.RunConfig, logger *log.Logger) int {
	w, err := watch.New(cfg.WatchedFiles, func(ctx context.Context) error {
		_, err := runner.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w%s", err, hintFor(err))
		}
		return nil
	}, watch.WithStability(cfg.Stability), watch.WithLogger(logger))
	if err != nil {
		reportError(logger, err)
		return ExitGeneral
	}

	if err := w.Run(ctx); err != nil {
		reportError(logger, err)
		return ExitGeneral
	}
	return ExitSuccess
}

// reportError logs err with an actionable hint when one applies.
func reportError(logger *log.Logger, err error) {
	logger.Error(err.Error() + hintFor(err))
}

// hintFor returns a formatted hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, webset.ErrNoInput):
		return hints.ForNoInput()
	case errors.Is(err, webset.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, webset.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, webset.ErrMalformedHTML):
		return hints.ForMalformedHTML()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyleNames())
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, webset.ErrWritePreview), errors.Is(err, webset.ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}
