package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func noopRun(context.Context) error { return nil }

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(nil, noopRun)
	require.ErrorIs(t, err, ErrNoFiles)

	_, err = New([]string{"/a/b.html"}, nil)
	require.ErrorIs(t, err, ErrNoRun)

	w, err := New([]string{"/a/b.html", "/a/c.css", "/d/e.svg", "/a/b.html"}, noopRun)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.FromSlash("/a"), filepath.FromSlash("/d")}, w.dirs)
	require.Len(t, w.files, 3)
	require.Equal(t, DefaultStability, w.stability)
}

func TestWithStability(t *testing.T) {
	t.Parallel()

	w, err := New([]string{"/a/b.html"}, noopRun, WithStability(40*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 40*time.Millisecond, w.stability)

	w, err = New([]string{"/a/b.html"}, noopRun, WithStability(0))
	require.NoError(t, err)
	require.Equal(t, DefaultStability, w.stability)
}

func TestIsRelevant(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/site")
	w, err := New([]string{filepath.Join(dir, "a.html"), filepath.Join(dir, "a.css")}, noopRun)
	require.NoError(t, err)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write to input", fsnotify.Event{Name: filepath.Join(dir, "a.html"), Op: fsnotify.Write}, true},
		{"create of extra file", fsnotify.Event{Name: filepath.Join(dir, "a.css"), Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "a.html"), Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: filepath.Join(dir, "a.html"), Op: fsnotify.Remove}, false},
		{"preview output", fsnotify.Event{Name: filepath.Join(dir, "a_preview.html"), Op: fsnotify.Write}, false},
		{"pdf output", fsnotify.Event{Name: filepath.Join(dir, "a.pdf"), Op: fsnotify.Create}, false},
		{"renderer temp file", fsnotify.Event{Name: filepath.Join(dir, ".webset-123.html"), Op: fsnotify.Create}, false},
		{"editor swap file", fsnotify.Event{Name: filepath.Join(dir, ".a.html.swp"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, w.isRelevant(tt.ev))
		})
	}
}

func TestWatcher_BurstCoalescesToSingleRun(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	w, err := New([]string{"/site/a.html"}, func(context.Context) error {
		runs.Add(1)
		return nil
	}, WithStability(40*time.Millisecond))
	require.NoError(t, err)

	ctx := t.Context()
	go w.worker(ctx)

	w.trigger()
	time.Sleep(10 * time.Millisecond)
	w.trigger()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(120 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load(), "two changes inside the stability window must run once")
}

func TestWatcher_TriggersDuringRunQueueOneFollowUp(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	started := make(chan struct{}, 10)
	release := make(chan struct{})

	w, err := New([]string{"/site/a.html"}, func(context.Context) error {
		runs.Add(1)
		started <- struct{}{}
		<-release
		return nil
	}, WithStability(5*time.Millisecond))
	require.NoError(t, err)

	ctx := t.Context()
	go w.worker(ctx)

	w.trigger()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first run")
	}

	for range 5 {
		w.trigger()
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, int32(1), runs.Load(), "in-flight run must not be interrupted or overlapped")

	close(release)
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(2), runs.Load(), "expected exactly one follow-up run")
}

func TestWatcher_FailedRunKeepsWatching(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	w, err := New([]string{"/site/a.html"}, func(context.Context) error {
		runs.Add(1)
		return errors.New("render failed")
	}, WithStability(5*time.Millisecond))
	require.NoError(t, err)

	ctx := t.Context()
	go w.worker(ctx)

	w.trigger()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	w.trigger()
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(input, []byte("<body>v1</body>"), 0o644))

	var runs atomic.Int32
	w, err := New([]string{input}, func(context.Context) error {
		runs.Add(1)
		return nil
	}, WithStability(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher ready")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_preview.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.html"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(0), runs.Load(), "unwatched files must not trigger runs")

	require.NoError(t, os.WriteFile(input, []byte("<body>v2</body>"), 0o644))
	require.NoError(t, os.WriteFile(input, []byte("<body>v3</body>"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_RunMissingDirectory(t *testing.T) {
	t.Parallel()

	w, err := New([]string{filepath.Join(t.TempDir(), "missing", "a.html")}, noopRun)
	require.NoError(t, err)

	err = w.Run(t.Context())
	require.ErrorIs(t, err, ErrWatch)
}
