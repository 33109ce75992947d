// Package cache implements the two-tier, content-addressed cache of parsed
// symbol tables and token counts described for the repository map builder.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pairmap-ai/pairmap/internal/symbols"
)

// Key identifies a cache entry by file path and the SHA-256 digest of its
// content. Equality is by Hash; Path is carried for locality and diagnostics
// only, matching the data model's cache-key contract.
type Key struct {
	Path string
	Hash string
}

// NewKey derives a Key from a file's path and content.
func NewKey(path string, content []byte) Key {
	sum := sha256.Sum256(content)
	return Key{Path: path, Hash: hex.EncodeToString(sum[:])}
}

// CachedSymbols is the payload stored for a symbol-extraction cache entry.
type CachedSymbols struct {
	Symbols    []symbols.Symbol
	References []symbols.Reference
}

// CachedTokens is the payload stored for a token-count cache entry.
type CachedTokens struct {
	Count     int
	Tokenizer string
}

// Metadata accompanies every stored payload.
type Metadata struct {
	CreatedAt        time.Time
	LastAccessedAt   time.Time
	UncompressedSize int
	CompressedSize   int
}

// Stats summarizes cache activity, matching the contract's stats() call.
type Stats struct {
	MemoryHits   int64
	MemoryMisses int64
	DiskHits     int64
	DiskMisses   int64
	Computes     int64
	// DiskBytesEstimate is a heuristic 3x the sum of compressed entry sizes,
	// not a precise on-disk byte count; see the design notes on this tradeoff.
	DiskBytesEstimate int64
}
