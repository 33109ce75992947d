package symbols

import (
	"fmt"
	"path/filepath"
	"sync"
)

// ErrUnsupported is returned when no parser is registered for a file's
// extension.
type ErrUnsupported struct {
	Path string
	Ext  string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("symbols: unsupported extension %q for %s", e.Ext, e.Path)
}

// LanguageParser extracts symbols and references for one language family.
type LanguageParser interface {
	Language() string
	Extensions() []string
	Parse(path, content string) ([]Symbol, error)
	FindReferences(path, content string) ([]Reference, error)
}

// Registry dispatches parse requests to the parser registered for a file's
// extension, mirroring the teacher's framework/ast.ParserRegistry pattern.
type Registry struct {
	mu         sync.RWMutex
	byExt      map[string]LanguageParser
	extensions map[string]struct{}
}

// NewRegistry returns an empty registry; call RegisterDefaults to install the
// built-in Go and tree-sitter-backed parsers.
func NewRegistry() *Registry {
	return &Registry{
		byExt:      make(map[string]LanguageParser),
		extensions: make(map[string]struct{}),
	}
}

// Register installs a parser for all the extensions it declares. A later
// registration for the same extension overrides an earlier one.
func (r *Registry) Register(p LanguageParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.Extensions() {
		r.byExt[ext] = p
		r.extensions[ext] = struct{}{}
	}
}

// SupportedExtensions returns every extension handled by a registered parser.
func (r *Registry) SupportedExtensions() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]struct{}, len(r.extensions))
	for ext := range r.extensions {
		out[ext] = struct{}{}
	}
	return out
}

func (r *Registry) lookup(path string) (LanguageParser, error) {
	ext := filepath.Ext(path)
	r.mu.RLock()
	p, ok := r.byExt[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, &ErrUnsupported{Path: path, Ext: ext}
	}
	return p, nil
}

// ParseFile extracts the symbol set for a file's content. Parse errors from
// the underlying language parser still return whatever partial symbol set
// could be recovered, per the fail-open policy for parse failures.
func (r *Registry) ParseFile(path, content string) ([]Symbol, error) {
	p, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, content)
}

// FindReferences extracts identifier references from a file's content.
func (r *Registry) FindReferences(path, content string) ([]Reference, error) {
	p, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	return p.FindReferences(path, content)
}

// RegisterDefaults wires in the Go, tree-sitter, and Markdown outline parsers.
func (r *Registry) RegisterDefaults() {
	r.Register(NewGoParser())
	for _, lang := range treeSitterLanguages() {
		r.Register(lang)
	}
	r.Register(NewDocParser())
}
