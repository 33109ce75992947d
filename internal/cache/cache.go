package cache

import (
	"bytes"
	"encoding/gob"
	"os"
	"sync"
	"time"

	"github.com/pairmap-ai/pairmap/internal/symbols"
)

// SymbolParser is the narrow interface the cache needs from a parser; it is
// satisfied by *symbols.Registry.
type SymbolParser interface {
	ParseFile(path, content string) ([]symbols.Symbol, error)
	FindReferences(path, content string) ([]symbols.Reference, error)
}

type memEntry struct {
	kind     string
	symbols  *CachedSymbols
	tokens   *CachedTokens
	meta     Metadata
	compSize int
}

// Cache is the two-tier content-addressed cache described for the
// repository map builder: a mutex-guarded memory map backed by a sharded,
// zstd-compressed disk tier, grounded on the teacher's persistence.CodeIndex
// JSON-store idiom but adapted to a compressed, content-hashed layout.
type Cache struct {
	mu   sync.Mutex
	mem  map[Key]*memEntry
	disk *diskTier

	hitsMem, missMem   int64
	hitsDisk, missDisk int64
	computes           int64
}

// DefaultRoot returns the OS user cache directory, falling back to a
// temp-directory subtree when the OS has none configured.
func DefaultRoot() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return dir
}

// New returns a ready-to-use cache rooted at root/toolName.
func New(root, toolName string) (*Cache, error) {
	disk, err := newDiskTier(root, toolName)
	if err != nil {
		return nil, err
	}
	return &Cache{
		mem:  make(map[Key]*memEntry),
		disk: disk,
	}, nil
}

// GetOrComputeSymbols returns the symbol table and references for (path,
// content), consulting memory then disk before falling back to parser.
func (c *Cache) GetOrComputeSymbols(path, content string, parser SymbolParser) ([]symbols.Symbol, []symbols.Reference, error) {
	key := NewKey(path, []byte(content))

	c.mu.Lock()
	if e, ok := c.mem[key]; ok && e.kind == "symbols" {
		e.meta.LastAccessedAt = time.Now()
		c.hitsMem++
		syms, refs := cloneSymbolPayload(e.symbols)
		c.mu.Unlock()
		return syms, refs, nil
	}
	c.missMem++
	c.mu.Unlock()

	if payload, meta, ok := c.diskLookupSymbols(key); ok {
		c.mu.Lock()
		c.hitsDisk++
		c.mem[key] = &memEntry{kind: "symbols", symbols: payload, meta: meta, compSize: meta.CompressedSize}
		syms, refs := cloneSymbolPayload(payload)
		c.mu.Unlock()
		return syms, refs, nil
	}
	c.mu.Lock()
	c.missDisk++
	c.mu.Unlock()

	syms, err := parser.ParseFile(path, content)
	if err != nil && syms == nil {
		return nil, nil, err
	}
	refs, refErr := parser.FindReferences(path, content)
	if refErr != nil && refs == nil {
		refErr = nil
	}

	payload := &CachedSymbols{Symbols: syms, References: refs}
	c.store(key, "symbols", payload, nil)
	return syms, refs, nil
}

// GetOrComputeTokens returns the token count for (path, content) under the
// named tokenizer, recomputing via count when the tokenizer identifier
// stored for a hit does not match the one requested.
func (c *Cache) GetOrComputeTokens(path, content, tokenizerID string, count func(string) int) (int, error) {
	key := NewKey(path, []byte(content))

	c.mu.Lock()
	if e, ok := c.mem[key]; ok && e.kind == "tokens" && e.tokens.Tokenizer == tokenizerID {
		e.meta.LastAccessedAt = time.Now()
		c.hitsMem++
		n := e.tokens.Count
		c.mu.Unlock()
		return n, nil
	}
	c.missMem++
	c.mu.Unlock()

	if payload, meta, ok := c.diskLookupTokens(key); ok && payload.Tokenizer == tokenizerID {
		c.mu.Lock()
		c.hitsDisk++
		c.mem[key] = &memEntry{kind: "tokens", tokens: payload, meta: meta, compSize: meta.CompressedSize}
		c.mu.Unlock()
		return payload.Count, nil
	}
	c.mu.Lock()
	c.missDisk++
	c.mu.Unlock()

	n := count(content)
	payload := &CachedTokens{Count: n, Tokenizer: tokenizerID}
	c.store(key, "tokens", nil, payload)
	return n, nil
}

func (c *Cache) diskLookupSymbols(key Key) (*CachedSymbols, Metadata, bool) {
	rec, payload, err := c.disk.read(key)
	if err != nil || rec.Key.Hash != key.Hash {
		return nil, Metadata{}, false
	}
	var decoded CachedSymbols
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&decoded); err != nil {
		c.disk.removeCorrupt(c.disk.entryPath(key))
		return nil, Metadata{}, false
	}
	return &decoded, rec.Metadata, true
}

func (c *Cache) diskLookupTokens(key Key) (*CachedTokens, Metadata, bool) {
	rec, payload, err := c.disk.read(key)
	if err != nil || rec.Key.Hash != key.Hash {
		return nil, Metadata{}, false
	}
	var decoded CachedTokens
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&decoded); err != nil {
		c.disk.removeCorrupt(c.disk.entryPath(key))
		return nil, Metadata{}, false
	}
	return &decoded, rec.Metadata, true
}

func (c *Cache) store(key Key, kind string, symbolsPayload *CachedSymbols, tokensPayload *CachedTokens) {
	now := time.Now()
	meta := Metadata{CreatedAt: now, LastAccessedAt: now}

	var buf bytes.Buffer
	var err error
	switch kind {
	case "symbols":
		err = gob.NewEncoder(&buf).Encode(symbolsPayload)
	case "tokens":
		err = gob.NewEncoder(&buf).Encode(tokensPayload)
	}

	c.mu.Lock()
	c.computes++
	c.mem[key] = &memEntry{kind: kind, symbols: symbolsPayload, tokens: tokensPayload, meta: meta}
	c.mu.Unlock()

	if err != nil {
		return // serialization failure: cache is advisory, keep the memory entry only
	}
	if writeErr := c.disk.write(key, kind, meta, buf.Bytes()); writeErr == nil {
		c.mu.Lock()
		if e, ok := c.mem[key]; ok {
			e.compSize = len(c.disk.compress(buf.Bytes()))
		}
		c.mu.Unlock()
	}
}

// Invalidate drops every cached entry (memory and disk) known under path,
// across whatever content hashes have been observed for it this process.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.mem {
		if k.Path == path {
			delete(c.mem, k)
			c.disk.invalidate(k)
		}
	}
}

// ClearAll empties both tiers and resets counters.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem = make(map[Key]*memEntry)
	c.hitsMem, c.missMem, c.hitsDisk, c.missDisk, c.computes = 0, 0, 0, 0, 0
	return c.disk.clearAll()
}

// Stats reports cumulative hit/miss counters and the heuristic disk-size
// estimate (3x the compressed payload size of every entry resident in
// memory; this is a documented approximation, not an exact on-disk size).
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	var estimate int64
	for _, e := range c.mem {
		estimate += int64(e.compSize) * 3
	}
	return Stats{
		MemoryHits:        c.hitsMem,
		MemoryMisses:       c.missMem,
		DiskHits:          c.hitsDisk,
		DiskMisses:        c.missDisk,
		Computes:          c.computes,
		DiskBytesEstimate: estimate,
	}
}

func cloneSymbolPayload(p *CachedSymbols) ([]symbols.Symbol, []symbols.Reference) {
	syms := make([]symbols.Symbol, len(p.Symbols))
	copy(syms, p.Symbols)
	refs := make([]symbols.Reference, len(p.References))
	copy(refs, p.References)
	return syms, refs
}
