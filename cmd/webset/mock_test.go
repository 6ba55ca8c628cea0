package main

import (
	"bytes"
	"context"
	"sync"

	webset "github.com/alnah/go-webset"
)

// mockConverter records conversions and signals each one on calls.
type mockConverter struct {
	mu     sync.Mutex
	count  int
	html   []string
	err    error
	closed bool
	calls  chan struct{}
}

func newMockConverter() *mockConverter {
	return &mockConverter{calls: make(chan struct{}, 64)}
}

func (m *mockConverter) ToPDF(_ context.Context, htmlContent string, _ *webset.PDFOptions) ([]byte, error) {
	m.mu.Lock()
	m.count++
	m.html = append(m.html, htmlContent)
	err := m.err
	m.mu.Unlock()

	select {
	case m.calls <- struct{}{}:
	default:
	}
	if err != nil {
		return nil, err
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockConverter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConverter) conversions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// testEnv returns an Environment rooted at dir with the given variables.
func testEnv(dir string, vars map[string]string, conv *mockConverter) (*Environment, *bytes.Buffer, *syncWriter) {
	stdout, stderr := &bytes.Buffer{}, &syncWriter{}
	env := &Environment{
		Stdout: stdout,
		Stderr: stderr,
		LookupEnv: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Getwd:        func() (string, error) { return dir, nil },
		NewConverter: func() webset.PDFConverter { return conv },
	}
	return env, stdout, stderr
}

// syncWriter serializes writes from the watcher goroutines.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncWriter) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
