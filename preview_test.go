package webset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-webset/internal/assets"
	"github.com/alnah/go-webset/internal/pipeline"
)

func previewConfig(t *testing.T, style string) RunConfig {
	t.Helper()

	dir := t.TempDir()
	return RunConfig{
		InputPath:  filepath.Join(dir, "a.html"),
		InputDir:   dir,
		InputFile:  "a.html",
		InputBase:  "a",
		OutputName: "a.pdf",
		OutputPath: filepath.Join(dir, "a.pdf"),
		Preview:    true,
		Style:      style,
	}
}

func TestBuildPreview(t *testing.T) {
	t.Parallel()

	cfg := previewConfig(t, "page")
	styles := &mockStyleLoader{styles: map[string]string{"page": "body { margin: 0; }"}}

	path, err := BuildPreview(context.Background(), "<html><head></head><body>Hi</body></html>", cfg, styles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(cfg.InputDir, "a_preview.html"); path != want {
		t.Errorf("BuildPreview() path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "<html><head>" + pipeline.StyleBlock(sheetCSS(cfg)+"body { margin: 0; }") +
		`</head><body><div class="webset-page">Hi</div></body></html>`
	if string(data) != want {
		t.Errorf("preview =\n%q\nwant\n%q", data, want)
	}
}

func TestSheetCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format PageFormat
		margin float64
		want   []string
	}{
		{"defaults", "", 0, []string{"--webset-sheet-width: 8.5in", "--webset-sheet-height: 11in", "--webset-margin: 0.5in"}},
		{"a4", PageA4, 1, []string{"--webset-sheet-width: 8.27in", "--webset-sheet-height: 11.69in", "--webset-margin: 1in"}},
		{"legal", PageLegal, 0.75, []string{"--webset-sheet-height: 14in", "--webset-margin: 0.75in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sheetCSS(RunConfig{PageFormat: tt.format, MarginInches: tt.margin})
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("sheetCSS() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestBuildPreview_SheetFollowsPageSettings(t *testing.T) {
	t.Parallel()

	cfg := previewConfig(t, "page")
	cfg.PageFormat = PageA4
	cfg.MarginInches = 1

	path, err := BuildPreview(context.Background(), "<html><head></head><body>Hi</body></html>", cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"--webset-sheet-width: 8.27in", "--webset-margin: 1in", "var(--webset-sheet-width"} {
		if !strings.Contains(string(data), w) {
			t.Errorf("preview missing %q", w)
		}
	}
}

func TestBuildPreview_StylesheetPath(t *testing.T) {
	t.Parallel()

	cssPath := filepath.Join(t.TempDir(), "print.css")
	if err := os.WriteFile(cssPath, []byte(".custom{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := previewConfig(t, cssPath)
	styles := &mockStyleLoader{err: errors.New("named styles must not be used")}

	path, err := BuildPreview(context.Background(), "<body>x</body>", cfg, styles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), ".custom{}") {
		t.Errorf("preview should embed the stylesheet file, got %q", data)
	}
}

func TestBuildPreview_EmbeddedDefault(t *testing.T) {
	t.Parallel()

	cfg := previewConfig(t, "")
	path, err := BuildPreview(context.Background(), "<body>x</body>", cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	css, err := assets.NewEmbeddedLoader().LoadStyle(assets.DefaultStyleName)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), pipeline.StyleBlock(css)) {
		t.Error("preview should embed the default page style")
	}
}

func TestBuildPreview_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		style   string
		styles  StyleLoader
		wantErr error
	}{
		{
			name:    "missing stylesheet file",
			html:    "<body></body>",
			style:   filepath.FromSlash("/nonexistent/dir/print.css"),
			wantErr: ErrReadStylesheet,
		},
		{
			name:    "unknown style name",
			html:    "<body></body>",
			style:   "nope",
			styles:  assets.NewEmbeddedLoader(),
			wantErr: assets.ErrStyleNotFound,
		},
		{
			name:    "no body tag",
			html:    "<html><head></head></html>",
			style:   "page",
			styles:  &mockStyleLoader{},
			wantErr: ErrMalformedHTML,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := previewConfig(t, tt.style)
			_, err := BuildPreview(context.Background(), tt.html, cfg, tt.styles)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BuildPreview() error = %v, want %v", err, tt.wantErr)
			}
			if _, statErr := os.Stat(cfg.PreviewPath()); !os.IsNotExist(statErr) {
				t.Error("no preview file should be written on error")
			}
		})
	}
}

func TestBuildPreview_UnwritableDirectory(t *testing.T) {
	t.Parallel()

	cfg := previewConfig(t, "page")
	cfg.InputDir = filepath.Join(cfg.InputDir, "missing")

	_, err := BuildPreview(context.Background(), "<body></body>", cfg, &mockStyleLoader{})
	if !errors.Is(err, ErrWritePreview) {
		t.Errorf("expected ErrWritePreview, got %v", err)
	}
}
