package webset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/alnah/go-webset/internal/fileutil"
	"github.com/alnah/go-webset/internal/pipeline"
)

var defaultMarkdown = sync.OnceValue(func() pipeline.HTMLConverter {
	return pipeline.NewGoldmarkConverter()
})

// LoadHTML reads the document at path. Markdown inputs (.md, .markdown) are
// decoded to UTF-8 and converted to a standalone HTML document; everything
// else is returned as read, byte for byte, so that a declared charset still
// matches the bytes the browser sees.
func LoadHTML(ctx context.Context, path string) (string, error) {
	return loadDocument(ctx, path, defaultMarkdown())
}

func loadDocument(ctx context.Context, path string, md pipeline.HTMLConverter) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadHTML, err)
	}

	if !fileutil.IsMarkdown(path) {
		return string(data), nil
	}

	text, err := decodeUTF8(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadHTML, err)
	}

	return md.ToHTML(ctx, text, fileutil.BaseName(path))
}

var utf8BOM = []byte("\xef\xbb\xbf")

// decodeUTF8 converts text in a BOM-marked or non-UTF-8 encoding to UTF-8.
// Input that is valid UTF-8 as a whole is kept as is; only invalid input is
// sniffed, and undeclared non-UTF-8 input is taken as windows-1252.
func decodeUTF8(data []byte) (string, error) {
	if text := bytes.TrimPrefix(data, utf8BOM); utf8.Valid(text) {
		return string(text), nil
	}

	enc, name, _ := charset.DetermineEncoding(data, "text/plain")
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(bytes.TrimPrefix(out, utf8BOM)), nil
}
