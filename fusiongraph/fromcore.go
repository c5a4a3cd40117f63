package fusiongraph

import (
	"sort"

	"github.com/regpath/carp/core"
)

// FromCore builds an AxisRow Graph of stride p over a *core.Graph's
// vertex/edge topology, for use by internal/testutil's builder-based
// synthetic fixtures. Vertex IDs are mapped to 0-based indices in
// (length, then lexicographic) ID order, which is numeric order for
// builder's decimal IDs and is deterministic regardless of map iteration
// order; edge weights are taken from core.Edge.Weight (cast to float64)
// unless unitWeight is true, in which case every edge gets weight 1.
//
// Complexity: O(V log V + E).
func FromCore(g *core.Graph, p int, unitWeight bool) (*Graph, error) {
	ids := g.Vertices()
	sort.Slice(ids, func(a, b int) bool {
		if len(ids[a]) != len(ids[b]) {
			return len(ids[a]) < len(ids[b])
		}
		return ids[a] < ids[b]
	})
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	edges := make([]Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		l, m := index[e.From], index[e.To]
		if l == m {
			continue // fusiongraph rejects self-loops via L<M
		}
		if l > m {
			l, m = m, l
		}
		w := float64(e.Weight)
		if unitWeight || w <= 0 {
			w = 1
		}
		edges = append(edges, Edge{L: l, M: m, W: w})
	}

	return New(AxisRow, len(ids), p, dedupe(edges))
}

// dedupe drops edges that collapse onto an already-seen (L,M) pair after
// undirected normalization (parallel edges of a multigraph, or the two
// directions of a directed pair, would otherwise appear twice).
func dedupe(edges []Edge) []Edge {
	seen := make(map[[2]int]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		key := [2]int{e.L, e.M}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
