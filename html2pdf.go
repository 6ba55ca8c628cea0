package webset

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-webset/internal/fileutil"
	"github.com/alnah/go-webset/internal/process"
)

// PDFConverter abstracts HTML to PDF conversion to allow different backends.
type PDFConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *PDFOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *PDFOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ PDFConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// PDFOptions holds options for PDF generation.
type PDFOptions struct {
	Format  PageFormat
	Margin  float64       // inches, all sides
	Timeout time.Duration // page load budget; 0 means DefaultTimeout
	BaseDir string        // relative references resolve against this directory
}

// pdfOptionsFor derives PDFOptions from a run configuration.
func pdfOptionsFor(cfg RunConfig) *PDFOptions {
	return &PDFOptions{
		Format:  cfg.PageFormat,
		Margin:  cfg.MarginInches,
		Timeout: cfg.Timeout,
		BaseDir: cfg.InputDir,
	}
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pid      int
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	r.pid = l.PID()
	return browser, nil
}

// Close shuts the browser down and kills any leftover Chrome helpers.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	process.KillTree(r.pid)
	r.pid = 0
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: fileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	timeout := DefaultTimeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPrintOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPrintOptions constructs proto.PagePrintToPDF for the page format and margin.
func buildPrintOptions(opts *PDFOptions) *proto.PagePrintToPDF {
	format := DefaultFormat
	margin := DefaultMargin
	if opts != nil {
		if opts.Format != "" {
			format = opts.Format
		}
		if opts.Margin > 0 {
			margin = opts.Margin
		}
	}

	width, height := format.Dimensions()
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer pdfRenderer
}

// NewPDFConverter returns the headless Chrome converter. The browser is
// started on the first conversion and reused until Close.
func NewPDFConverter() PDFConverter {
	return &rodConverter{renderer: &rodRenderer{}}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome. The HTML
// is written to a hidden temp file inside opts.BaseDir so that relative
// stylesheet, image and script references resolve against that directory.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *PDFOptions) ([]byte, error) {
	dir := ""
	if opts != nil {
		dir = opts.BaseDir
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(dir, htmlContent, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// RenderPDF converts the untouched htmlContent to PDF and writes it to
// cfg.OutputPath, replacing any existing file. Returns the bytes written.
func RenderPDF(ctx context.Context, htmlContent string, cfg RunConfig, conv PDFConverter) (int, error) {
	data, err := conv.ToPDF(ctx, htmlContent, pdfOptionsFor(cfg))
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(cfg.OutputPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	return len(data), nil
}
