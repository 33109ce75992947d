package lazyctx

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is the subset of internal/cache.Cache this package depends
// on: evicting a changed file's cached symbols/tokens.
type Invalidator interface {
	Invalidate(path string)
}

// Watcher watches the project tree for changes and evicts a changed
// file's loaded content (and cache entry, if wired) so the next access
// reloads from disk, rather than relying purely on polling.
type Watcher struct {
	loader *Loader
	cache  Invalidator
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatcher attaches a filesystem watcher to loader. cache may be nil if
// no invalidation-aware cache is in use.
func NewWatcher(loader *Loader, cache Invalidator) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{loader: loader, cache: cache, fsw: fsw, stopCh: make(chan struct{})}, nil
}

// Start begins watching the loader's root directory tree.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	return w.fsw.Close()
}

func (w *Watcher) addDirectories() error {
	seen := map[string]bool{w.loader.root: true}
	if err := w.fsw.Add(w.loader.root); err != nil {
		return err
	}
	for _, fe := range w.loader.Entries() {
		dir := filepath.Dir(filepath.Join(w.loader.root, fe.Path))
		if seen[dir] {
			continue
		}
		seen[dir] = true
		_ = w.fsw.Add(dir)
	}
	return nil
}

func (w *Watcher) processEvents() {
	debounce := map[string]time.Time{}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounce[event.Name] = time.Now()
		case <-ticker.C:
			w.flush(debounce)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) flush(debounce map[string]time.Time) {
	now := time.Now()
	for name, ts := range debounce {
		if now.Sub(ts) < 50*time.Millisecond {
			continue
		}
		delete(debounce, name)

		rel, err := filepath.Rel(w.loader.root, name)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		w.loader.evict(rel)
		if w.cache != nil {
			w.cache.Invalidate(rel)
		}
	}
}
