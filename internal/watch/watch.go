// Package watch re-runs a job whenever one of a set of files changes.
//
// Changes are debounced by a stability window, and runs are serialized
// through a single-slot queue: a run in flight is never interrupted, and any
// number of changes arriving meanwhile collapse into one follow-up run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultStability is how long a file must stay unchanged before a run starts.
const DefaultStability = 500 * time.Millisecond

// Sentinel errors.
var (
	ErrNoFiles = errors.New("no files to watch")
	ErrNoRun   = errors.New("run function is required")
	ErrWatch   = errors.New("failed to watch directory")
)

// RunFunc is the job executed after each settled change.
type RunFunc func(ctx context.Context) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithStability sets the debounce window. Non-positive values are ignored.
func WithStability(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.stability = d
		}
	}
}

// WithLogger sets the logger for watcher events and run failures.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher watches files and calls a RunFunc after they settle.
type Watcher struct {
	files     map[string]bool
	dirs      []string
	stability time.Duration
	run       RunFunc
	logger    *log.Logger

	readyOnce sync.Once
	ready     chan struct{}

	mu    sync.Mutex
	timer *time.Timer

	// runReq holds at most one pending run.
	runReq chan struct{}
}

// New creates a Watcher for files, which should be absolute paths.
func New(files []string, run RunFunc, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if run == nil {
		return nil, ErrNoRun
	}

	w := &Watcher{
		files:     make(map[string]bool, len(files)),
		stability: DefaultStability,
		run:       run,
		logger:    log.New(io.Discard),
		ready:     make(chan struct{}),
		runReq:    make(chan struct{}, 1),
	}

	seenDirs := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		if dir := filepath.Dir(f); !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Ready is closed once Run has subscribed to every watched directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. It returns after the run in flight,
// if any, has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("%w %s: %v", ErrWatch, dir, err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()

	w.logger.Info("File watcher started.")
	w.logger.Debug("watching", "files", len(w.files), "dirs", w.dirs, "stability", w.stability)
	w.readyOnce.Do(func() { close(w.ready) })

	err = w.loop(ctx, fsw)
	w.stopTimer()
	wg.Wait()
	return err
}

// loop dispatches fsnotify events until ctx is done or the watcher closes.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.isRelevant(ev) {
				w.logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
				w.trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// isRelevant reports whether ev writes or creates a watched file. Everything
// else in the watched directories, such as swap files, the renderer's temp
// files and the generated outputs, is ignored.
func (w *Watcher) isRelevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return w.files[filepath.Clean(ev.Name)]
}

// trigger restarts the stability timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.stability, w.request)
}

// request queues a run unless one is already pending.
func (w *Watcher) request() {
	select {
	case w.runReq <- struct{}{}:
	default:
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// worker is the only goroutine that calls run.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.runReq:
			if ctx.Err() != nil {
				return
			}
			w.logger.Info("File change detected.")
			if err := w.run(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Error(err)
			}
		}
	}
}
