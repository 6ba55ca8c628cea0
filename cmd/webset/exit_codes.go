package main

import (
	"context"
	"errors"
	"os"

	webset "github.com/alnah/go-webset"
	"github.com/alnah/go-webset/internal/assets"
	"github.com/alnah/go-webset/internal/config"
)

// Exit codes for the webset CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// errUsage marks command line parsing errors.
var errUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, webset.ErrBrowserConnect) ||
		errors.Is(err, webset.ErrPageCreate) ||
		errors.Is(err, webset.ErrPageLoad) ||
		errors.Is(err, webset.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2). Checked before I/O: an unknown
	// style name arrives wrapped in ErrReadStylesheet.
	if errors.Is(err, errUsage) ||
		errors.Is(err, webset.ErrNoInput) ||
		errors.Is(err, webset.ErrMalformedHTML) ||
		errors.Is(err, webset.ErrHTMLConversion) ||
		errors.Is(err, webset.ErrInvalidPageFormat) ||
		errors.Is(err, webset.ErrInvalidMargin) ||
		errors.Is(err, webset.ErrInvalidTimeout) ||
		errors.Is(err, webset.ErrInvalidStability) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, webset.ErrReadHTML) ||
		errors.Is(err, webset.ErrReadStylesheet) ||
		errors.Is(err, webset.ErrWritePreview) ||
		errors.Is(err, webset.ErrWritePDF) {
		return ExitIO
	}

	return ExitGeneral
}
