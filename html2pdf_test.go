package webset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-webset/internal/fileutil"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func TestBuildPrintOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                  string
		opts                  *PDFOptions
		wantWidth, wantHeight float64
		wantMargin            float64
	}{
		{"nil options use letter", nil, 8.5, 11, 0.5},
		{"zero options use letter", &PDFOptions{}, 8.5, 11, 0.5},
		{"a4 with margin", &PDFOptions{Format: PageA4, Margin: 1}, 8.27, 11.69, 1},
		{"legal", &PDFOptions{Format: PageLegal, Margin: 0.25}, 8.5, 14, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPrintOptions(tt.opts)
			if *got.PaperWidth != tt.wantWidth || *got.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			for side, m := range map[string]*float64{
				"top": got.MarginTop, "bottom": got.MarginBottom,
				"left": got.MarginLeft, "right": got.MarginRight,
			} {
				if *m != tt.wantMargin {
					t.Errorf("margin %s = %v, want %v", side, *m, tt.wantMargin)
				}
			}
			if !got.PrintBackground {
				t.Error("PrintBackground should be true")
			}
		})
	}
}

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	renderer := &mockRenderer{}
	conv := &rodConverter{renderer: renderer}

	const doc = `<html><head></head><body><img src="logo.png"></body></html>`
	got, err := conv.ToPDF(context.Background(), doc, &PDFOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "%PDF-1.4 rendered" {
		t.Errorf("ToPDF() = %q", got)
	}

	if filepath.Dir(renderer.filePath) != dir {
		t.Errorf("temp file in %q, want %q", filepath.Dir(renderer.filePath), dir)
	}
	if !strings.HasPrefix(filepath.Base(renderer.filePath), fileutil.TempPrefix) {
		t.Errorf("temp file %q should be hidden", renderer.filePath)
	}
	if string(renderer.content) != doc {
		t.Errorf("rendered content = %q, want %q", renderer.content, doc)
	}
	if _, err := os.Stat(renderer.filePath); !os.IsNotExist(err) {
		t.Error("temp file should be removed after rendering")
	}
}

func TestRodConverter_ToPDF_RendererError(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{err: ErrBrowserConnect}
	conv := &rodConverter{renderer: renderer}

	_, err := conv.ToPDF(context.Background(), "<body></body>", &PDFOptions{BaseDir: t.TempDir()})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("expected ErrBrowserConnect, got %v", err)
	}
}

func TestRodConverter_ToPDF_MissingBaseDir(t *testing.T) {
	t.Parallel()

	conv := &rodConverter{renderer: &mockRenderer{}}
	_, err := conv.ToPDF(context.Background(), "<body></body>", &PDFOptions{
		BaseDir: filepath.Join(t.TempDir(), "missing"),
	})
	if !errors.Is(err, ErrPDFGeneration) {
		t.Errorf("expected ErrPDFGeneration, got %v", err)
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	conv := &rodConverter{renderer: renderer}
	if err := conv.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !renderer.closed {
		t.Error("renderer should be closed")
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := &rodRenderer{}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on unused renderer = %v, want nil", err)
	}
}

func TestRenderPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := RunConfig{
		InputDir:     dir,
		OutputPath:   filepath.Join(dir, "a.pdf"),
		PageFormat:   PageLegal,
		MarginInches: 0.75,
		Timeout:      5 * time.Second,
	}
	if err := os.WriteFile(cfg.OutputPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := &mockPDFConverter{output: []byte("%PDF-1.7 fresh")}
	n, err := RenderPDF(context.Background(), "<body>x</body>", cfg, conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("%PDF-1.7 fresh") {
		t.Errorf("RenderPDF() = %d bytes, want %d", n, len("%PDF-1.7 fresh"))
	}

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.7 fresh" {
		t.Errorf("output = %q, want overwritten PDF", data)
	}

	want := PDFOptions{Format: PageLegal, Margin: 0.75, Timeout: 5 * time.Second, BaseDir: dir}
	if *conv.inputOpts != want {
		t.Errorf("PDFOptions = %+v, want %+v", *conv.inputOpts, want)
	}
}

func TestRenderPDF_Errors(t *testing.T) {
	t.Parallel()

	t.Run("converter error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := RunConfig{InputDir: dir, OutputPath: filepath.Join(dir, "a.pdf")}
		_, err := RenderPDF(context.Background(), "<body></body>", cfg, &mockPDFConverter{err: ErrPageLoad})
		if !errors.Is(err, ErrPageLoad) {
			t.Errorf("expected ErrPageLoad, got %v", err)
		}
		if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
			t.Error("no PDF should be written on converter error")
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := RunConfig{InputDir: dir, OutputPath: filepath.Join(dir, "missing", "a.pdf")}
		_, err := RenderPDF(context.Background(), "<body></body>", cfg, &mockPDFConverter{})
		if !errors.Is(err, ErrWritePDF) {
			t.Errorf("expected ErrWritePDF, got %v", err)
		}
	})
}
