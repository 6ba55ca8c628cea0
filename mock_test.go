package webset

import (
	"context"
	"sync"
)

// Mock implementations for testing.

type mockPDFConverter struct {
	mu        sync.Mutex
	calls     int
	inputHTML string
	inputOpts *PDFOptions
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *PDFOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

type mockRenderer struct {
	filePath string
	content  []byte
	opts     *PDFOptions
	err      error
	closed   bool
}

// RenderFromFile records the temp file contents before the converter removes it.
func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PDFOptions) ([]byte, error) {
	m.filePath = filePath
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	m.content = data
	return []byte("%PDF-1.4 rendered"), nil
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

type mockStyleLoader struct {
	styles map[string]string
	err    error
}

func (m *mockStyleLoader) LoadStyle(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.styles[name], nil
}
