// Package precompute builds the D/Dt difference operators and the
// reusable sparse Cholesky factor of A = I + rho*D^T*D that every
// carp/cbass step solves against.
//
// D acts identically and independently on each of a Graph's Stride()
// channels, so A is block-diagonal with Stride() identical Count()x
// Count() blocks A_scalar = I + rho*L, where L is the unweighted
// combinatorial Laplacian of the fusion graph (edge weights enter only
// the prox threshold, never D or A). Factor therefore builds A_scalar
// once and reuses one factor across every channel and every iteration
// of the path — the amortization spec.md's PreCompute is named for,
// applied per-channel.
package precompute

import "github.com/regpath/carp/fusiongraph"

// D computes v_hat = D*u: for each edge i, the Stride()-length
// difference u[E1(i)] - u[E2(i)] (Extract-based, so this works for
// either Axis). The result is edge-major, length NumEdges()*Stride().
//
// Complexity: O(|E| * Stride()).
func D(g *fusiongraph.Graph, u []float64) []float64 {
	stride := g.Stride()
	out := make([]float64, g.NumEdges()*stride)
	for i, e := range g.Edges() {
		l := g.Extract(u, e.L)
		m := g.Extract(u, e.M)
		lo := i * stride
		for j := 0; j < stride; j++ {
			out[lo+j] = l[j] - m[j]
		}
	}
	return out
}

// Dt computes u = D^T*v: for each edge i, adds v's i-th block into
// vertex L's positions and subtracts it from vertex M's positions of
// the shared n*p primal buffer (Extract/ScatterAdd-based, so this works
// for either Axis).
//
// Complexity: O(|E| * Stride()).
func Dt(g *fusiongraph.Graph, v []float64) []float64 {
	out := make([]float64, g.Count()*g.Stride())
	stride := g.Stride()
	neg := make([]float64, stride)
	for i, e := range g.Edges() {
		lo, hi := g.Block(i)
		block := v[lo:hi]
		g.ScatterAdd(out, e.L, block)
		for j, x := range block {
			neg[j] = -x
		}
		g.ScatterAdd(out, e.M, neg)
	}
	return out
}
