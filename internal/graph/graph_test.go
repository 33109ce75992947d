package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairmap-ai/pairmap/internal/symbols"
)

func buildSampleGraph() *Graph {
	g := New()
	g.AddFile("a.go", []symbols.Symbol{{Name: "foo", Kind: symbols.KindFunction, File: "a.go", Line: 3}})
	g.AddFile("b.go", []symbols.Symbol{{Name: "bar", Kind: symbols.KindFunction, File: "b.go", Line: 5}})
	g.AddFile("c.go", nil)

	g.AddReferences([]symbols.Reference{
		{Name: "foo", File: "b.go", Line: 6},
		{Name: "foo", File: "c.go", Line: 1},
	})
	return g
}

func TestPageRankConvergesAndSumsToOne(t *testing.T) {
	g := buildSampleGraph()
	g.ComputePageRank(0.85, 100, nil)

	var total float64
	for _, n := range g.nodes {
		total += n.importance
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}

func TestPersonalizationFavorsChatFileInflow(t *testing.T) {
	g := buildSampleGraph()
	builder := NewMapBuilder(g, func(s string) int { return len(s) })

	// Budget wide enough for exactly one symbol's rendering.
	// "a.go:\n  3: function foo\n" is 24 characters.
	rendered := builder.GenerateMap(24, []string{"b.go"}, nil)
	require.NotEmpty(t, rendered)
	assert.True(t, strings.Contains(rendered, "a.go"))
	assert.Contains(t, rendered, "foo")
}

func TestGenerateMapEmptyWhenBudgetTooSmall(t *testing.T) {
	g := buildSampleGraph()
	builder := NewMapBuilder(g, func(s string) int { return len(s) })

	rendered := builder.GenerateMap(0, nil, nil)
	assert.Empty(t, rendered)
}

func TestGenerateMapIsMemoized(t *testing.T) {
	g := buildSampleGraph()
	calls := 0
	builder := NewMapBuilder(g, func(s string) int {
		calls++
		return len(s)
	})

	first := builder.GenerateMap(1000, nil, nil)
	callsAfterFirst := calls
	second := builder.GenerateMap(1000, nil, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, calls, "second call should hit the memo, not recount tokens")
}

func TestRankedSymbolsOrderByScoreThenInsertion(t *testing.T) {
	g := New()
	g.AddFile("a.go", []symbols.Symbol{
		{Name: "First", Kind: symbols.KindFunction, File: "a.go", Line: 1},
		{Name: "Second", Kind: symbols.KindFunction, File: "a.go", Line: 2},
	})
	g.ComputePageRank(0.85, 10, nil)

	ranked := g.RankedSymbols(0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "First", ranked[0].Symbol.Name)
	assert.Equal(t, "Second", ranked[1].Symbol.Name)
}
