// Package watch re-runs an action whenever a file changes on disk.
//
// It watches the file's directory rather than the file itself so that
// editors and tools which replace the file through a rename are still
// noticed. Bursts of events are collapsed into one run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vecseed/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before the action runs.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned when Run is called on a closed watcher.
var ErrClosed = errors.New("watch: watcher is closed")

// Action is run after each change. Errors are logged and do not stop the watcher.
type Action func(ctx context.Context) error

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a watcher for path. A non-positive debounce uses DefaultDebounce.
func New(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
	}
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks, calling action after each burst of writes to the file, until
// ctx is cancelled or the watcher is closed. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context, action Action) error {
	fw, err := w.start()
	if err != nil {
		return err
	}
	defer w.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.isRelevant(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-fire:
			fire = nil
			if err := action(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("watch: %s: %v", w.path, err)
			}
		}
	}
}

func (w *Watcher) start() (*fsnotify.Watcher, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if w.watcher != nil {
		return nil, errors.New("watch: already running")
	}

	dir := filepath.Dir(w.path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: directory error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}

	w.watcher = fw
	return fw, nil
}

// isRelevant reports whether event means the file now has new content.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
