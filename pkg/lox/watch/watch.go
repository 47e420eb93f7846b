// Package watch re-runs a callback when Lox source files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/source"
)

// DefaultDebounce is the quiet period a file must see before its callback fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors files and directories for changes to Lox sources
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	debounce time.Duration
	logger   lox.Logger

	files map[string]bool // explicitly named files
	roots []string        // directories watched recursively

	mu      sync.Mutex
	pending map[string]*time.Timer
	fireMu  sync.Mutex // serialises onChange
	seq     uint64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero fires on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger receives "[WATCH]" progress lines.
func WithLogger(l lox.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher over paths. Files are watched individually;
// directories are watched recursively for any Lox source. onChange receives
// the changed file's path and is never called concurrently with itself.
func New(paths []string, onChange func(path string), opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsWatcher,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   lox.NullLogger(),
		files:    make(map[string]bool),
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	if info.IsDir() {
		if err := w.watchDirRecursive(abs); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.roots = append(w.roots, abs)
		w.logInfo("watching directory: %s", path)
		return nil
	}

	// Watch the parent so saves by rename are still seen.
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	w.files[abs] = true
	w.logInfo("watching file: %s", path)
	return nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run processes file system events until ctx is cancelled, then closes the
// watcher. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logError("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// New subdirectories under a watched root are picked up as they appear
	if event.Has(fsnotify.Create) && w.underRoot(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(event.Name); err != nil {
				w.logError("failed to watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.relevant(event.Name) {
		return
	}
	w.schedule(event.Name)
}

// relevant reports whether a changed path should trigger the callback.
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	return source.IsSource(path) && w.underRoot(path)
}

func (w *Watcher) underRoot(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// schedule fires the callback once path has been quiet for the debounce
// period. Each further event restarts the wait.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce <= 0 {
		go w.fire(path)
		return
	}

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.fireMu.Lock()
	defer w.fireMu.Unlock()

	w.mu.Lock()
	w.seq++
	w.mu.Unlock()

	w.logInfo("changed: %s", path)
	w.onChange(path)
}

// ChangeCount returns how many callbacks have fired.
func (w *Watcher) ChangeCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.watcher.Close()
}

func (w *Watcher) logInfo(format string, args ...any) {
	w.logger.LogLine(fmt.Sprintf("[WATCH] "+format, args...))
}

func (w *Watcher) logError(format string, args ...any) {
	w.logger.LogLine(fmt.Sprintf("[WATCH ERROR] "+format, args...))
}
