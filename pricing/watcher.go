package pricing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval is the fallback polling cadence when fsnotify is unavailable.
const pollInterval = 2 * time.Second

// Watcher keeps a price table in sync with a file on disk.
// Reloads swap the table atomically; a table that fails to parse is
// rejected and the previous table stays in effect.
type Watcher struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	table Table

	cancel context.CancelFunc
	done   chan struct{}

	// onReload, when set, is called after each successful reload.
	onReload func(Table)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithOnReload registers a callback invoked after each successful reload.
func WithOnReload(fn func(Table)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher loads the table at path and watches the file for changes until
// ctx is cancelled or Close is called. Uses fsnotify with a polling fallback.
func NewWatcher(ctx context.Context, path string, opts ...WatcherOption) (*Watcher, error) {
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:   path,
		logger: slog.Default(),
		table:  table,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.watch(ctx)
	return w, nil
}

// Table returns the current price table.
func (w *Watcher) Table() Table {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.table
}

// Close stops watching. The last loaded table remains available.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.done)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("fsnotify unavailable, polling price table", "path", w.path, "error", err)
		w.poll(ctx)
		return
	}
	defer fw.Close()

	// Watch the directory: editors and config tools typically replace the
	// file, which drops a watch on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("watch failed, polling price table", "path", w.path, "error", err)
		w.poll(ctx)
		return
	}

	baseName := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("price table watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(w.path); err == nil {
		lastMod = info.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil || !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	table, err := LoadTable(w.path)
	if err != nil {
		w.logger.Warn("price table reload rejected", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	w.table = table
	w.mu.Unlock()

	w.logger.Info("price table reloaded", "path", w.path, "models", len(table))
	if w.onReload != nil {
		w.onReload(table)
	}
}
