package webset

import (
	"errors"

	"github.com/alnah/go-webset/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrNoInput        = errors.New("no input file specified")
	ErrReadHTML       = errors.New("failed to read input file")
	ErrReadStylesheet = errors.New("failed to read preview stylesheet")
	ErrWritePreview   = errors.New("failed to write preview file")
	ErrWritePDF       = errors.New("failed to write PDF file")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Run settings validation errors.
	ErrInvalidPageFormat = errors.New("invalid page format")
	ErrInvalidMargin     = errors.New("invalid margin")
	ErrInvalidTimeout    = errors.New("invalid timeout")
	ErrInvalidStability  = errors.New("invalid stability window")
)

// ErrMalformedHTML is returned when the document lacks a marker the preview
// needs (<body> or </body>).
var ErrMalformedHTML = pipeline.ErrMalformedHTML

// ErrHTMLConversion is returned when a Markdown input cannot be converted.
var ErrHTMLConversion = pipeline.ErrHTMLConversion
