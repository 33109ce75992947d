package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairmap-ai/pairmap/internal/symbols"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir(), "pairmap-test")
	require.NoError(t, err)
	return c
}

func newTestRegistry() *symbols.Registry {
	r := symbols.NewRegistry()
	r.RegisterDefaults()
	return r
}

func TestGetOrComputeSymbolsIsStableForUnchangedContent(t *testing.T) {
	c := newTestCache(t)
	r := newTestRegistry()
	content := "package sample\n\nfunc Foo() {}\n"

	syms1, _, err := c.GetOrComputeSymbols("sample.go", content, r)
	require.NoError(t, err)
	syms2, _, err := c.GetOrComputeSymbols("sample.go", content, r)
	require.NoError(t, err)

	assert.Equal(t, syms1, syms2)
	assert.Equal(t, int64(1), c.Stats().Computes)
	assert.Equal(t, int64(1), c.Stats().MemoryHits)
}

func TestGetOrComputeSymbolsPromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "pairmap-test")
	require.NoError(t, err)
	r := newTestRegistry()
	content := "package sample\n\nfunc Foo() {}\n"

	_, _, err = c.GetOrComputeSymbols("sample.go", content, r)
	require.NoError(t, err)

	// A fresh Cache over the same disk root must promote the disk entry
	// instead of recomputing.
	c2, err := New(dir, "pairmap-test")
	require.NoError(t, err)
	syms, _, err := c2.GetOrComputeSymbols("sample.go", content, r)
	require.NoError(t, err)
	assert.NotEmpty(t, syms)
	assert.Equal(t, int64(1), c2.Stats().DiskHits)
	assert.Equal(t, int64(0), c2.Stats().Computes)
}

func TestGetOrComputeSymbolsInvalidatesOnContentChange(t *testing.T) {
	c := newTestCache(t)
	r := newTestRegistry()

	symsV1, _, err := c.GetOrComputeSymbols("x.go", "package x\n\nfunc A() {}\n", r)
	require.NoError(t, err)
	symsV2, _, err := c.GetOrComputeSymbols("x.go", "package x\n\nfunc B() {}\n", r)
	require.NoError(t, err)

	assert.NotEqual(t, symsV1, symsV2)
	var names []string
	for _, s := range symsV2 {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "B")
	assert.NotContains(t, names, "A")
}

func TestGetOrComputeTokensRecomputesOnTokenizerMismatch(t *testing.T) {
	c := newTestCache(t)
	calls := 0
	count := func(s string) int {
		calls++
		return len(s) / 4
	}

	n1, err := c.GetOrComputeTokens("a.go", "hello world", "tok-a", count)
	require.NoError(t, err)
	n2, err := c.GetOrComputeTokens("a.go", "hello world", "tok-b", count)
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, 2, calls)
}

func TestInvalidateDropsEntry(t *testing.T) {
	c := newTestCache(t)
	r := newTestRegistry()
	_, _, err := c.GetOrComputeSymbols("x.go", "package x\n", r)
	require.NoError(t, err)

	c.Invalidate("x.go")

	_, _, err = c.GetOrComputeSymbols("x.go", "package x\n", r)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Stats().Computes)
}

func TestClearAllResetsCounters(t *testing.T) {
	c := newTestCache(t)
	r := newTestRegistry()
	_, _, err := c.GetOrComputeSymbols("x.go", "package x\n", r)
	require.NoError(t, err)

	require.NoError(t, c.ClearAll())
	assert.Equal(t, Stats{}, c.Stats())
}
