package graph

// ComputePageRank runs damping/iterations of power-iteration PageRank over
// the graph. personalization maps file path to an un-normalized weight; it
// is renormalized to sum to 1 and substitutes for the uniform 1/N term.
// A nil or empty personalization behaves as uniform.
func (g *Graph) ComputePageRank(damping float64, iterations int, personalization map[string]float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.nodes)
	if n == 0 {
		return
	}

	reset := make([]float64, n)
	if len(personalization) == 0 {
		for i := range reset {
			reset[i] = 1.0 / float64(n)
		}
	} else {
		var total float64
		for path, w := range personalization {
			if idx, ok := g.indexOf[path]; ok {
				reset[idx] += w
				total += w
			}
		}
		if total > 0 {
			for i := range reset {
				reset[i] /= total
			}
		} else {
			for i := range reset {
				reset[i] = 1.0 / float64(n)
			}
		}
	}

	// incoming[target] = list of (source, weight)
	type inEdge struct {
		source int
		weight float64
	}
	incoming := make([][]inEdge, n)
	for key, e := range g.edges {
		src, tgt := key[0], key[1]
		incoming[tgt] = append(incoming[tgt], inEdge{source: src, weight: float64(e.weight)})
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, n)

		var danglingMass float64
		for i, s := range scores {
			if g.outWeight[i] == 0 {
				danglingMass += s
			}
		}
		danglingShare := danglingMass / float64(n)

		for tgt := 0; tgt < n; tgt++ {
			var inflow float64
			for _, e := range incoming[tgt] {
				ow := float64(g.outWeight[e.source])
				if ow == 0 {
					continue
				}
				inflow += (e.weight / ow) * scores[e.source]
			}
			next[tgt] = (1-damping)*reset[tgt] + damping*(inflow+danglingShare)
		}
		scores = next
	}

	for i, node := range g.nodes {
		node.importance = scores[i]
	}
}

