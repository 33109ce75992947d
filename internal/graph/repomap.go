package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TokenCounter counts tokens in a rendered repo-map string. It is injected
// rather than hard-coded so the graph package stays independent of any one
// tokenizer.
type TokenCounter func(string) int

// mapMemoKey is the (budget, chat files, mentioned files, graph digest)
// tuple the specification requires memoized repo-map output be keyed by.
type mapMemoKey struct {
	budget    int
	chatSet   string
	mentioned string
	digest    string
}

// MapBuilder renders token-budgeted repo maps from a Graph, memoizing
// output per the freshness rule in the specification.
type MapBuilder struct {
	mu    sync.Mutex
	graph *Graph
	count TokenCounter
	memo  map[mapMemoKey]string
}

// NewMapBuilder returns a map builder over graph using count to size
// candidate renderings against the token budget.
func NewMapBuilder(g *Graph, count TokenCounter) *MapBuilder {
	return &MapBuilder{graph: g, count: count, memo: make(map[mapMemoKey]string)}
}

// GenerateMap renders the largest prefix of ranked symbols whose encoded
// form fits within tokenBudget, selected by binary search over k as the
// specification's contract requires. chatFiles and mentionedFiles drive the
// PageRank personalization and the memo key.
func (b *MapBuilder) GenerateMap(tokenBudget int, chatFiles, mentionedFiles []string) string {
	key := mapMemoKey{
		budget:    tokenBudget,
		chatSet:   joinSorted(chatFiles),
		mentioned: joinSorted(mentionedFiles),
		digest:    b.graph.Digest(),
	}

	b.mu.Lock()
	if cached, ok := b.memo[key]; ok {
		b.mu.Unlock()
		return cached
	}
	b.mu.Unlock()

	personalization := buildPersonalization(b.graph, chatFiles, mentionedFiles)
	b.graph.ComputePageRank(0.85, 30, personalization)
	ranked := b.graph.RankedSymbols(0)

	rendered := b.selectByBudget(ranked, tokenBudget)

	b.mu.Lock()
	b.memo[key] = rendered
	b.mu.Unlock()
	return rendered
}

// selectByBudget binary-searches k in [0, len(ranked)] for the largest
// prefix whose rendering fits tokenBudget.
func (b *MapBuilder) selectByBudget(ranked []RankedSymbol, tokenBudget int) string {
	lo, hi := 0, len(ranked)
	best := ""
	for lo <= hi {
		mid := (lo + hi) / 2
		candidate := renderSymbols(ranked[:mid])
		if b.count(candidate) <= tokenBudget {
			best = candidate
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// renderSymbols groups symbols by file, with a file header line preceding
// each group, and a compact per-symbol line: line, kind, name, optional
// signature truncated to 60 chars, optional doc comment.
func renderSymbols(ranked []RankedSymbol) string {
	if len(ranked) == 0 {
		return ""
	}

	order := make([]string, 0)
	byFile := make(map[string][]RankedSymbol)
	for _, r := range ranked {
		f := r.Symbol.File
		if _, ok := byFile[f]; !ok {
			order = append(order, f)
		}
		byFile[f] = append(byFile[f], r)
	}

	var sb strings.Builder
	for _, f := range order {
		sb.WriteString(f)
		sb.WriteString(":\n")
		for _, r := range byFile[f] {
			s := r.Symbol
			sig := s.Signature
			if len(sig) > 60 {
				sig = sig[:60]
			}
			line := fmt.Sprintf("  %d: %s %s", s.Line, s.Kind, s.Name)
			if sig != "" {
				line += " " + sig
			}
			sb.WriteString(line)
			sb.WriteString("\n")
			if s.Doc != "" {
				sb.WriteString("    // " + s.Doc + "\n")
			}
		}
	}
	return sb.String()
}

// buildPersonalization assigns weight 10 to chat files, 5 to mentioned
// files, and 1 to every other graph node.
func buildPersonalization(g *Graph, chatFiles, mentionedFiles []string) map[string]float64 {
	g.mu.RLock()
	paths := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		paths[i] = n.path
	}
	g.mu.RUnlock()

	chat := toSet(chatFiles)
	mentioned := toSet(mentionedFiles)

	out := make(map[string]float64, len(paths))
	for _, p := range paths {
		switch {
		case chat[p]:
			out[p] = 10
		case mentioned[p]:
			out[p] = 5
		default:
			out[p] = 1
		}
	}
	return out
}

func toSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, s := range list {
		out[s] = true
	}
	return out
}

func joinSorted(list []string) string {
	cp := append([]string(nil), list...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
