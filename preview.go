package webset

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-webset/internal/assets"
	"github.com/alnah/go-webset/internal/fileutil"
	"github.com/alnah/go-webset/internal/pipeline"
)

// StyleLoader loads a preview stylesheet by name.
type StyleLoader = assets.StyleLoader

// NewStyleLoader returns a loader for the built-in styles, overridden by
// <assetPath>/styles/<name>.css when assetPath is set.
func NewStyleLoader(assetPath string) (StyleLoader, error) {
	return assets.NewAssetResolver(assetPath)
}

var previewInjector pipeline.PreviewInjector = &pipeline.PreviewInjection{}

// BuildPreview writes the on-screen preview of htmlContent next to the input
// as <base>_preview.html and returns its path. The stylesheet is cfg.Style,
// read from disk when it is a path or loaded through styles otherwise. An
// unreadable stylesheet fails the stage before anything is written.
func BuildPreview(ctx context.Context, htmlContent string, cfg RunConfig, styles StyleLoader) (string, error) {
	css, err := loadStylesheet(cfg.Style, styles)
	if err != nil {
		return "", err
	}

	preview, err := previewInjector.InjectPreview(ctx, htmlContent, sheetCSS(cfg)+css)
	if err != nil {
		return "", err
	}

	path := cfg.PreviewPath()
	if err := os.WriteFile(path, []byte(preview), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePreview, err)
	}

	return path, nil
}

// sheetCSS exposes the PDF sheet size and margin to preview stylesheets as
// --webset-sheet-width, --webset-sheet-height and --webset-margin.
func sheetCSS(cfg RunConfig) string {
	format := cfg.PageFormat
	if format == "" {
		format = DefaultFormat
	}
	margin := cfg.MarginInches
	if margin <= 0 {
		margin = DefaultMargin
	}
	w, h := format.Dimensions()
	return fmt.Sprintf(":root { --webset-sheet-width: %gin; --webset-sheet-height: %gin; --webset-margin: %gin; }\n", w, h, margin)
}

// loadStylesheet resolves a style name or CSS file path to CSS text.
func loadStylesheet(style string, styles StyleLoader) (string, error) {
	if style == "" {
		style = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(style) {
		data, err := os.ReadFile(style) // #nosec G304 -- user-provided stylesheet path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadStylesheet, err)
		}
		return string(data), nil
	}

	if styles == nil {
		styles = assets.NewEmbeddedLoader()
	}

	css, err := styles.LoadStyle(style)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadStylesheet, err)
	}
	return css, nil
}
