package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/navtool/chartload/errors"
	"github.com/navtool/chartload/logger"
)

// Watcher watches the catalog file for changes and reloads it so digest and
// URL updates apply to subsequent loads without a restart.
type Watcher struct {
	catalog        *Catalog
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// ReloadCallback is called after the catalog has been reloaded.
type ReloadCallback func(*Catalog)

// NewWatcher creates a watcher for the catalog's backing file.
func NewWatcher(c *Catalog) (*Watcher, error) {
	if c.Path() == "" {
		return nil, errors.New("cannot watch an in-memory catalog")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsw.Add(c.Path()); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch catalog file %s", c.Path())
	}

	return &Watcher{
		catalog:        c,
		watcher:        fsw,
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
	}, nil
}

// OnReload registers a callback invoked after each successful reload.
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for catalog file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching for catalog changes.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only reload on Write or Create events
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if isTempFile(event.Name) {
					continue
				}
				logger.Infow("Catalog watcher detected change",
					"file", event.Name,
					"op", event.Op.String())
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Catalog watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid file changes and triggers reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Errorw("Catalog reload failed",
				"path", w.catalog.Path(),
				"error", err)
		}
	})
}

func (w *Watcher) reload() error {
	if err := w.catalog.Reload(); err != nil {
		return err
	}

	logger.Infow("Catalog reloaded",
		"path", w.catalog.Path(),
		"charts", w.catalog.Len())

	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(w.catalog)
	}
	return nil
}

// isTempFile filters editor swap and temp artifacts next to the catalog.
func isTempFile(path string) bool {
	return strings.HasSuffix(path, "~") ||
		strings.HasSuffix(path, ".swp") ||
		strings.HasSuffix(path, ".tmp")
}
