// Package fusiongraph holds the fusion graph consumed by precompute, prox,
// carp and cbass: an ordered edge set over either the observation axis
// (rows) or the variable axis (columns), plus the per-edge index
// bookkeeping every kernel needs to avoid ever materializing D densely.
//
// A Graph is built once and never mutated; all methods are safe for
// concurrent read-only use by design (there is no lock, because there is
// no writer after New returns).
package fusiongraph

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for Graph construction.
var (
	// ErrInvalidDims indicates n<=0 or p<=0.
	ErrInvalidDims = errors.New("fusiongraph: invalid dimensions")

	// ErrBadEdge indicates an edge endpoint out of range, L>=M, or W<=0.
	ErrBadEdge = errors.New("fusiongraph: bad edge")

	// ErrDuplicateEdge indicates two edges share the same (L,M) pair.
	ErrDuplicateEdge = errors.New("fusiongraph: duplicate edge")
)

// Axis selects which dimension of the shared n×p primal buffer a Graph's
// vertices range over: the observation axis (rows, used by plain CARP and
// CBASS's row kernel) or the variable axis (columns, used only by CBASS's
// column kernel). The primal buffer itself is always observation-major
// (length n*p, U[obs*p+var]) regardless of which axis a Graph indexes.
type Axis int

const (
	// AxisRow indexes observations; each vertex's block is the p
	// contiguous entries of one observation.
	AxisRow Axis = iota

	// AxisCol indexes variables; each vertex's block is the n entries of
	// one variable, strided by p through the observation-major buffer.
	AxisCol
)

// Edge is one fusion-graph edge: a 0-based endpoint pair L<M with a
// strictly positive weight.
type Edge struct {
	L, M int
	W    float64
}

// Graph is the EdgeGraph: an ordered edge list over Axis, plus the
// per-edge index bookkeeping (Block/E1/E2) and per-vertex adjacency.
type Graph struct {
	axis      Axis
	n, p      int
	edges     []Edge
	adjacency [][]int // sorted neighbor vertex indices, len == Count()
}

// New validates and constructs a Graph over axis, for shared primal
// dimensions n (observations) and p (variables). edges must have 0-based
// endpoints 0<=L<M<Count(axis,n,p), strictly positive weights, and no
// duplicate (L,M) pairs.
//
// Complexity: O(|E| log|E|) for duplicate detection, O(|E|) for adjacency.
func New(axis Axis, n, p int, edges []Edge) (*Graph, error) {
	if n <= 0 || p <= 0 {
		return nil, fmt.Errorf("%w: n=%d p=%d", ErrInvalidDims, n, p)
	}
	count := n
	if axis == AxisCol {
		count = p
	}

	seen := make(map[[2]int]struct{}, len(edges))
	for _, e := range edges {
		if e.L < 0 || e.M < 0 || e.L >= count || e.M >= count || e.L >= e.M {
			return nil, fmt.Errorf("%w: (%d,%d) out of range for count=%d", ErrBadEdge, e.L, e.M, count)
		}
		if e.W <= 0 {
			return nil, fmt.Errorf("%w: weight %g must be > 0", ErrBadEdge, e.W)
		}
		key := [2]int{e.L, e.M}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicateEdge, e.L, e.M)
		}
		seen[key] = struct{}{}
	}

	g := &Graph{
		axis:      axis,
		n:         n,
		p:         p,
		edges:     append([]Edge(nil), edges...),
		adjacency: make([][]int, count),
	}
	for _, e := range g.edges {
		g.adjacency[e.L] = append(g.adjacency[e.L], e.M)
		g.adjacency[e.M] = append(g.adjacency[e.M], e.L)
	}
	for i := range g.adjacency {
		sort.Ints(g.adjacency[i])
	}

	return g, nil
}

// Axis reports which axis this Graph indexes.
func (g *Graph) Axis() Axis { return g.axis }

// Count returns the number of vertices on this Graph's axis (n for
// AxisRow, p for AxisCol).
func (g *Graph) Count() int {
	if g.axis == AxisCol {
		return g.p
	}
	return g.n
}

// Stride returns the length of one vertex's block in its axis's V/Z
// buffers (p for AxisRow, n for AxisCol).
func (g *Graph) Stride() int {
	if g.axis == AxisCol {
		return g.n
	}
	return g.p
}

// Edges returns the edge list in construction order. Callers must treat
// the returned slice as read-only.
func (g *Graph) Edges() []Edge { return g.edges }

// NumEdges returns |E|.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Block returns the edge-major [lo,hi) range of edge i within a Stride()
// wide per-edge buffer (V, Z).
func (g *Graph) Block(i int) (lo, hi int) {
	s := g.Stride()
	return i * s, (i + 1) * s
}

// E1 returns the contiguous range of edge i's L endpoint within the
// shared n*p primal buffer. Valid only for AxisRow, since AxisCol's
// per-vertex blocks are strided, not contiguous; callers on AxisCol must
// use Extract/Scatter instead.
func (g *Graph) E1(i int) (lo, hi int) { return g.contiguousRange(g.edges[i].L) }

// E2 returns the contiguous range of edge i's M endpoint within the
// shared n*p primal buffer. See E1 for the AxisCol caveat.
func (g *Graph) E2(i int) (lo, hi int) { return g.contiguousRange(g.edges[i].M) }

func (g *Graph) contiguousRange(v int) (lo, hi int) {
	if g.axis != AxisRow {
		panic("fusiongraph: E1/E2 are only valid on AxisRow; use Extract/Scatter for AxisCol")
	}
	return v * g.p, (v + 1) * g.p
}

// Extract copies vertex v's block out of the shared n*p primal buffer u,
// following this Graph's axis (contiguous for AxisRow, strided by p for
// AxisCol).
func (g *Graph) Extract(u []float64, v int) []float64 {
	out := make([]float64, g.Stride())
	if g.axis == AxisRow {
		copy(out, u[v*g.p:(v+1)*g.p])
		return out
	}
	for i := 0; i < g.n; i++ {
		out[i] = u[i*g.p+v]
	}
	return out
}

// ScatterAdd adds block (length Stride()) into vertex v's positions of
// the shared n*p primal buffer dst, following this Graph's axis.
func (g *Graph) ScatterAdd(dst []float64, v int, block []float64) {
	if g.axis == AxisRow {
		base := v * g.p
		for j, x := range block {
			dst[base+j] += x
		}
		return
	}
	for i, x := range block {
		dst[i*g.p+v] += x
	}
}

// ScatterAddAt adds a single value x into vertex v's c-th channel
// position of the shared n*p primal buffer dst, following this Graph's
// axis. Equivalent to, but far cheaper than, building a Stride()-length
// block with x at index c and calling ScatterAdd.
func (g *Graph) ScatterAddAt(dst []float64, v, c int, x float64) {
	if g.axis == AxisRow {
		dst[v*g.p+c] += x
		return
	}
	dst[c*g.p+v] += x
}

// Degree returns len(Adjacency()[v]).
func (g *Graph) Degree(v int) int { return len(g.adjacency[v]) }

// Adjacency returns the sorted per-vertex neighbor lists. The returned
// slices must be treated as read-only.
func (g *Graph) Adjacency() [][]int { return g.adjacency }
