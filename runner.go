package webset

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-webset/internal/pipeline"
)

// RunResult describes the artifacts of one successful run.
type RunResult struct {
	PreviewPath string // empty when preview is disabled
	OutputPath  string
	PDFBytes    int
	Duration    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger progress messages go to. Defaults to a
// discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPDFConverter replaces the headless Chrome converter.
func WithPDFConverter(c PDFConverter) Option {
	return func(r *Runner) {
		r.converter = c
	}
}

// WithStyleLoader sets where named preview styles are loaded from.
// Defaults to the built-in styles.
func WithStyleLoader(s StyleLoader) Option {
	return func(r *Runner) {
		r.styles = s
	}
}

// Runner executes the load, preview and PDF stages for a RunConfig. A Runner
// owns one browser, reused across runs; it must not run concurrently with
// itself. Call Close when done.
type Runner struct {
	converter PDFConverter
	styles    StyleLoader
	markdown  pipeline.HTMLConverter
	logger    *log.Logger
}

// NewRunner creates a Runner with default collaborators.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.converter == nil {
		r.converter = NewPDFConverter()
	}
	if r.markdown == nil {
		r.markdown = defaultMarkdown()
	}

	return r
}

// Run reads the input, writes the preview when enabled, then renders the
// PDF from the original document. A failing stage ends the run: in
// particular no PDF is attempted after a preview failure.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	start := time.Now()

	r.logger.Infof("Reading %q...", cfg.InputFile)
	htmlContent, err := loadDocument(ctx, cfg.InputPath, r.markdown)
	if err != nil {
		return nil, err
	}

	result := &RunResult{OutputPath: cfg.OutputPath}

	if cfg.Preview {
		r.logger.Info("Creating preview...")
		path, err := BuildPreview(ctx, htmlContent, cfg, r.styles)
		if err != nil {
			return nil, fmt.Errorf("building preview: %w", err)
		}
		result.PreviewPath = path
		r.logger.Infof("Preview saved to %q", path)
	}

	r.logger.Info("Starting PDF conversion...")
	n, err := RenderPDF(ctx, htmlContent, cfg, r.converter)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	result.PDFBytes = n
	result.Duration = time.Since(start)
	r.logger.Infof("PDF saved to %q", cfg.OutputPath)
	r.logger.Debug("run finished", "bytes", n, "duration", result.Duration.Round(time.Millisecond))

	return result, nil
}

// Close releases resources (headless Chrome browser).
func (r *Runner) Close() error {
	if r.converter != nil {
		return r.converter.Close()
	}
	return nil
}
