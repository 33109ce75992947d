package lazyctx

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// TokenCounter estimates a token count for a string of file content.
type TokenCounter func(string) int

// Loader serves the lazy-loaded repository skeleton: LoadStructure returns
// instantly with the file list; content is filled in the background and
// on demand.
type Loader struct {
	root    string
	opts    Options
	count   TokenCounter
	project ProjectType

	mu      sync.RWMutex
	entries []FileEntry
	content map[string]string
	loaded  map[string]bool

	tokensLoaded int64 // atomic

	stopOnce sync.Once
	stopCh   chan struct{}
}

// LoadStructure walks root and returns a Loader instantly; no file content
// is read yet.
func LoadStructure(root string, opts Options, count TokenCounter) (*Loader, error) {
	entries, err := discover(root, opts)
	if err != nil {
		return nil, err
	}
	if count == nil {
		count = func(s string) int { return len(s) / 4 }
	}
	return &Loader{
		root:    root,
		opts:    opts,
		count:   count,
		project: DetectProjectType(root),
		entries: entries,
		content: make(map[string]string),
		loaded:  make(map[string]bool),
		stopCh:  make(chan struct{}),
	}, nil
}

// ProjectType returns the detected project type.
func (l *Loader) ProjectType() ProjectType { return l.project }

// Entries returns the discovered file list, priority files first.
func (l *Loader) Entries() []FileEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]FileEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TokensLoaded reports the atomically-updated running token count of
// content loaded so far.
func (l *Loader) TokensLoaded() int64 {
	return atomic.LoadInt64(&l.tokensLoaded)
}

// GetFile returns a file's content, loading it synchronously on first
// access if the background fill has not reached it yet.
func (l *Loader) GetFile(path string) (string, bool) {
	l.mu.RLock()
	if content, ok := l.content[path]; ok {
		l.mu.RUnlock()
		return content, true
	}
	l.mu.RUnlock()

	content, ok := l.readFile(path)
	if !ok {
		return "", false
	}
	l.store(path, content)
	return content, true
}

// LoadBatch loads a set of files in parallel.
func (l *Loader) LoadBatch(paths []string) {
	var wg sync.WaitGroup
	for _, p := range paths {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.GetFile(p)
		}()
	}
	wg.Wait()
}

func (l *Loader) readFile(path string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(l.root, path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (l *Loader) store(path, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded[path] {
		return
	}
	l.content[path] = content
	l.loaded[path] = true
	atomic.AddInt64(&l.tokensLoaded, int64(l.count(content)))
}

// evict drops a file's loaded content, forcing a synchronous reload on
// next access.
func (l *Loader) evict(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.content, path)
	delete(l.loaded, path)
}

// StartBackgroundFill loads the priority set first, then the remainder in
// chunks with a small delay between chunks. Before each chunk it stops if
// the running token count has reached the budget; the budget is not checked
// within a chunk, so the last chunk can overshoot it. It returns
// immediately; fill proceeds in a background goroutine until ctx is
// cancelled or Close is called.
func (l *Loader) StartBackgroundFill(ctx context.Context) {
	go l.fill(ctx)
}

func (l *Loader) fill(ctx context.Context) {
	entries := l.Entries()
	chunkSize := l.opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 10
	}
	budget := l.opts.MaxContextTokens

	for i := 0; i < len(entries); i += chunkSize {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		default:
		}

		if budget > 0 && l.TokensLoaded() >= int64(budget) {
			return
		}

		end := i + chunkSize
		if end > len(entries) {
			end = len(entries)
		}
		var wg sync.WaitGroup
		for _, fe := range entries[i:end] {
			fe := fe
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.GetFile(fe.Path)
			}()
		}
		wg.Wait()

		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case <-time.After(l.opts.ChunkDelay):
		}
	}
}

// Close stops any in-flight background fill.
func (l *Loader) Close() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
