package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrMalformedHTML indicates the document lacks a tag the preview needs.
var ErrMalformedHTML = errors.New("malformed HTML")

// Preview page wrapper markup.
const (
	PageClass = "webset-page"
	PageOpen  = `<div class="` + PageClass + `">`
	PageClose = `</div>`
)

// Markers holds byte offsets of the first <head>, <body> and </body> tags.
// An offset of -1 means the tag was not found.
type Markers struct {
	HeadOpenEnd    int // just after the first <head ...>
	BodyOpenStart  int // at the '<' of the first <body ...>
	BodyOpenEnd    int // just after the first <body ...>
	BodyCloseStart int // at the '<' of the first </body> following <body>
}

// HasHead reports whether a <head> start tag precedes the body.
func (m Markers) HasHead() bool {
	return m.HeadOpenEnd >= 0 && m.HeadOpenEnd <= m.BodyOpenStart
}

// FindMarkers scans htmlContent with a tolerant tokenizer and returns the
// byte offsets of the head and body boundaries. Tag names match case
// insensitively, attributes are allowed, and tags inside comments, raw text
// elements (script, style, textarea, title) or attribute values are ignored.
func FindMarkers(htmlContent string) Markers {
	m := Markers{HeadOpenEnd: -1, BodyOpenStart: -1, BodyOpenEnd: -1, BodyCloseStart: -1}

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return m
		}

		raw := len(z.Raw())
		start := offset
		offset += raw

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "head":
				if m.HeadOpenEnd < 0 && m.BodyOpenStart < 0 {
					m.HeadOpenEnd = offset
				}
			case "body":
				if m.BodyOpenStart < 0 {
					m.BodyOpenStart = start
					m.BodyOpenEnd = offset
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "body" && m.BodyOpenEnd >= 0 && m.BodyCloseStart < 0 {
				m.BodyCloseStart = start
				return m
			}
		}
	}
}

// PreviewInjector defines the contract for preview markup injection.
type PreviewInjector interface {
	InjectPreview(ctx context.Context, htmlContent, cssContent string) (string, error)
}

// PreviewInjection wraps the document body in the preview page element and
// adds the preview stylesheet to the head.
type PreviewInjection struct{}

// InjectPreview returns htmlContent with a <style> block inserted right after
// <head> and the body interior wrapped in a page div. Spans outside the
// insertion points are copied byte for byte. Without a <head> tag the style
// block goes right before <body>. Returns ErrMalformedHTML when <body> or
// </body> is missing.
func (p *PreviewInjection) InjectPreview(ctx context.Context, htmlContent, cssContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := FindMarkers(htmlContent)
	if m.BodyOpenEnd < 0 {
		return "", fmt.Errorf("%w: no <body> tag", ErrMalformedHTML)
	}
	if m.BodyCloseStart < 0 {
		return "", fmt.Errorf("%w: no </body> tag", ErrMalformedHTML)
	}

	styleBlock := StyleBlock(cssContent)

	var b strings.Builder
	b.Grow(len(htmlContent) + len(styleBlock) + len(PageOpen) + len(PageClose))

	if m.HasHead() {
		b.WriteString(htmlContent[:m.HeadOpenEnd])
		b.WriteString(styleBlock)
		b.WriteString(htmlContent[m.HeadOpenEnd:m.BodyOpenEnd])
	} else {
		b.WriteString(htmlContent[:m.BodyOpenStart])
		b.WriteString(styleBlock)
		b.WriteString(htmlContent[m.BodyOpenStart:m.BodyOpenEnd])
	}
	b.WriteString(PageOpen)
	b.WriteString(htmlContent[m.BodyOpenEnd:m.BodyCloseStart])
	b.WriteString(PageClose)
	b.WriteString(htmlContent[m.BodyCloseStart:])

	return b.String(), nil
}

// StyleBlock wraps CSS in the <style> element injected into previews.
func StyleBlock(cssContent string) string {
	return "\n<style>\n" + sanitizeCSS(cssContent) + "\n</style>\n"
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
