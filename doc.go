// Package webset turns a hand-authored HTML page into a paginated PDF and,
// optionally, an on-screen preview that mimics a printed sheet.
//
// # Quick Start
//
//	cfg, err := webset.ResolveRunConfig(webset.Options{
//	    Input:   "report.html",
//	    Preview: true,
//	}, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := webset.NewRunner()
//	defer r.Close()
//
//	if _, err := r.Run(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// This writes report_preview.html and report.pdf next to report.html.
//
// # Run Stages
//
//  1. Load: the input is read as is; .md and .markdown inputs are
//     converted to HTML via Goldmark first
//  2. Preview (optional): a stylesheet is injected after <head> and the
//     body interior is wrapped in a page element
//  3. PDF: the original document, never the preview, is rendered by
//     headless Chrome (go-rod) with the input directory as base URL
//
// A failing stage ends the run. Watching for changes and re-running is the
// job of internal/watch and the cmd/webset CLI.
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go and can be checked with errors.Is:
//
//	_, err := r.Run(ctx, cfg)
//	if errors.Is(err, webset.ErrMalformedHTML) {
//	    // input has no <body> or </body>
//	}
package webset
