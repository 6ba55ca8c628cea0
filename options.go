package webset

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-webset/internal/assets"
	"github.com/alnah/go-webset/internal/fileutil"
)

// PageFormat names a PDF paper size.
type PageFormat string

// Supported page formats.
const (
	PageLetter PageFormat = "letter"
	PageA4     PageFormat = "a4"
	PageLegal  PageFormat = "legal"
)

// Dimensions returns the paper width and height in inches.
func (f PageFormat) Dimensions() (width, height float64) {
	switch f {
	case PageA4:
		return 8.27, 11.69
	case PageLegal:
		return 8.5, 14
	default:
		return 8.5, 11
	}
}

// ParsePageFormat maps a case-insensitive name to a PageFormat.
func ParsePageFormat(s string) (PageFormat, error) {
	switch f := PageFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case PageLetter, PageA4, PageLegal:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageFormat, s)
}

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Run defaults.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultStability = 500 * time.Millisecond
	DefaultFormat    = PageLetter

	previewSuffix = "_preview.html"
	pdfExtension  = ".pdf"
)

// Options holds the raw, unresolved run arguments.
type Options struct {
	Input      string   // first positional argument
	ExtraWatch []string // remaining positional arguments, watched only
	Output     string   // output file name; empty means <input base>.pdf
	Preview    bool
	Watch      bool

	PageFormat string        // empty means letter
	Margin     float64       // inches; 0 means DefaultMargin
	Timeout    time.Duration // 0 means DefaultTimeout
	Stability  time.Duration // 0 means DefaultStability
	Style      string        // style name or CSS file path; empty means "page"
}

// DefaultOptions returns Options with preview on and watch off.
func DefaultOptions() Options {
	return Options{Preview: true}
}

// RunConfig is the resolved configuration of a run. It is created once per
// process and passed by value to every stage; nothing mutates it afterwards.
type RunConfig struct {
	InputPath  string // absolute
	InputDir   string
	InputFile  string // file name with extension
	InputBase  string // file name without extension
	OutputName string
	OutputPath string // absolute
	Preview    bool
	Watch      bool

	// WatchedFiles starts with InputPath, followed by the extra files in
	// argument order, all absolute and without duplicates.
	WatchedFiles []string

	PageFormat   PageFormat
	MarginInches float64
	Timeout      time.Duration
	Stability    time.Duration
	Style        string // style name, or absolute CSS file path
}

// PreviewPath returns <InputDir>/<InputBase>_preview.html.
func (c RunConfig) PreviewPath() string {
	return filepath.Join(c.InputDir, c.InputBase+previewSuffix)
}

// BaseURL returns the file:// URL of the input directory, with a trailing
// slash, against which relative references in the document resolve.
func (c RunConfig) BaseURL() string {
	return fileURL(c.InputDir) + "/"
}

// ResolveRunConfig turns raw options into a RunConfig. Relative paths are
// resolved against cwd; an empty cwd means the process working directory.
func ResolveRunConfig(opts Options, cwd string) (RunConfig, error) {
	if strings.TrimSpace(opts.Input) == "" {
		return RunConfig{}, ErrNoInput
	}

	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return RunConfig{}, fmt.Errorf("resolving working directory: %w", err)
		}
		cwd = wd
	}

	inputPath := resolveAgainst(cwd, opts.Input)
	cfg := RunConfig{
		InputPath: inputPath,
		InputDir:  filepath.Dir(inputPath),
		InputFile: filepath.Base(inputPath),
		InputBase: fileutil.BaseName(inputPath),
		Preview:   opts.Preview,
		Watch:     opts.Watch,
	}

	cfg.OutputName = opts.Output
	if cfg.OutputName == "" {
		cfg.OutputName = cfg.InputBase + pdfExtension
	}
	cfg.OutputPath = resolveAgainst(cfg.InputDir, cfg.OutputName)

	cfg.WatchedFiles = watchedFiles(cwd, inputPath, opts.ExtraWatch)

	if err := resolveRenderSettings(&cfg, opts, cwd); err != nil {
		return RunConfig{}, err
	}

	return cfg, nil
}

// resolveRenderSettings applies defaults and validates page, timing and style settings.
func resolveRenderSettings(cfg *RunConfig, opts Options, cwd string) error {
	cfg.PageFormat = DefaultFormat
	if opts.PageFormat != "" {
		f, err := ParsePageFormat(opts.PageFormat)
		if err != nil {
			return err
		}
		cfg.PageFormat = f
	}

	cfg.MarginInches = DefaultMargin
	if opts.Margin != 0 {
		if opts.Margin < MinMargin || opts.Margin > MaxMargin {
			return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, opts.Margin, MinMargin, MaxMargin)
		}
		cfg.MarginInches = opts.Margin
	}

	cfg.Timeout = DefaultTimeout
	if opts.Timeout != 0 {
		if opts.Timeout < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, opts.Timeout)
		}
		cfg.Timeout = opts.Timeout
	}

	cfg.Stability = DefaultStability
	if opts.Stability != 0 {
		if opts.Stability < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidStability, opts.Stability)
		}
		cfg.Stability = opts.Stability
	}

	cfg.Style = assets.DefaultStyleName
	if opts.Style != "" {
		cfg.Style = opts.Style
		if fileutil.IsFilePath(opts.Style) {
			cfg.Style = resolveAgainst(cwd, opts.Style)
		}
	}

	return nil
}

// watchedFiles returns input followed by extras, absolute and deduplicated.
func watchedFiles(cwd, input string, extras []string) []string {
	files := make([]string, 0, 1+len(extras))
	seen := make(map[string]bool, 1+len(extras))

	add := func(p string) {
		if seen[p] {
			return
		}
		seen[p] = true
		files = append(files, p)
	}

	add(input)
	for _, e := range extras {
		if strings.TrimSpace(e) == "" {
			continue
		}
		add(resolveAgainst(cwd, e))
	}
	return files
}

// resolveAgainst returns p unchanged when absolute, else joined to base.
func resolveAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// fileURL converts an absolute filesystem path to a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive paths
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
