// Package watcher monitors a directory for document changes so new or
// edited files can be ingested automatically. Events are debounced per
// file: editors produce bursts of writes for a single save, and each
// burst should trigger one ingestion, not one per write.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/retriva/internal/chunker"
	"github.com/custodia-labs/retriva/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before its change
// is reported.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a directory watcher.
type Config struct {
	// Dir is the directory to watch. Not recursive.
	Dir string

	// Debounce is the per-file quiet period. Zero means the default.
	Debounce time.Duration

	// OnFile receives the path of a file that was created or written
	// and has a supported extension. Called from the watcher's own
	// goroutine.
	OnFile func(path string)
}

// Watcher reports settled file changes in one directory.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onFile   func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for cfg.Dir. Start must be called before any
// events are delivered.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watcher: directory is required")
	}
	if cfg.OnFile == nil {
		return nil, fmt.Errorf("watcher: OnFile callback is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		watcher:  fsw,
		debounce: cfg.Debounce,
		onFile:   cfg.OnFile,
		pending:  make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
	logger.Info("Watching for document changes")
}

// Stop shuts the watcher down and cancels pending debounce timers.
// Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.wg.Wait()

		w.mu.Lock()
		for path, timer := range w.pending {
			timer.Stop()
			delete(w.pending, path)
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only files with a chunking strategy are worth reporting.
	if _, err := chunker.StrategyForExtension(filepath.Ext(event.Name)); err != nil {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(event.Name)
	}
}

// schedule arms (or re-arms) the debounce timer for a path. The
// callback fires only after the file has been quiet for the full
// debounce window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case <-w.stopCh:
			return
		default:
		}

		logger.Debug("Document changed: %s", path)
		w.onFile(path)
	})
}

// cancel drops a pending timer for a path that disappeared before its
// debounce window closed.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
		delete(w.pending, path)
	}
}
