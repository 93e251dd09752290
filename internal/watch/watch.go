// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/gqlsql/internal/debug"
)

// DefaultDebounce is the quiet period after the last write before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches files for changes.
type Watcher struct {
	files    map[string]bool
	callback func() error
	onError  func(error)
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	stop     sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithErrorHandler receives callback and watcher errors. By default they are
// logged.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher for files. The directories containing them
// are watched so that editors replacing the file are noticed too.
func NewWatcher(files []string, callback func() error, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		callback: callback,
		debounce: DefaultDebounce,
		watcher:  fw,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		onError: func(err error) {
			debug.Warn("watch error", "error", err)
		},
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := map[string]bool{}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}
	}
	return w, nil
}

// Start runs the callback once and then after every change.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.files[path] {
				continue
			}
			debug.Debug("file changed", "file", path, "op", event.Op.String())
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.callback(); err != nil {
				w.onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)

		case <-w.done:
			timer.Stop()
			return
		}
	}
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stop.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// Wait blocks until the loop started by Start has exited.
func (w *Watcher) Wait() {
	<-w.stopped
}
