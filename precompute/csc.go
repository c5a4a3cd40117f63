package precompute

import "github.com/regpath/carp/fusiongraph"

// CSC is a compressed-sparse-column representation of a symmetric n×n
// matrix's lower triangle plus diagonal, the storage format used to
// assemble A_scalar = I + rho*L from a fusion graph's edge list without
// ever touching an n×n dense array at assembly time.
type CSC struct {
	N      int
	ColPtr []int
	RowIdx []int
	Vals   []float64
}

// buildA assembles A_scalar = I + rho*L in CSC form, one column at a
// time, from g's adjacency lists. L is the unweighted combinatorial
// Laplacian: L[v][v] = deg(v), L[v][u] = -1 for each edge (v,u); edge
// weights never enter A (they enter only the prox threshold). Each
// column v stores the diagonal plus neighbors u > v — the lower
// triangle by column, the orientation a left-looking column-oriented
// Cholesky factorization (choleskySparse) walks directly.
//
// Complexity: O(Count() + |E|).
func buildA(g *fusiongraph.Graph, rho float64) *CSC {
	n := g.Count()
	adj := g.Adjacency()

	csc := &CSC{N: n, ColPtr: make([]int, n+1)}
	for v := 0; v < n; v++ {
		csc.ColPtr[v] = len(csc.RowIdx)
		// Diagonal entry first (1 + rho*deg(v)).
		csc.RowIdx = append(csc.RowIdx, v)
		csc.Vals = append(csc.Vals, 1+rho*float64(len(adj[v])))
		// Off-diagonal entries for neighbors u > v (lower triangle only;
		// Cholesky only needs the lower triangle, matrix is symmetric).
		for _, u := range adj[v] {
			if u > v {
				csc.RowIdx = append(csc.RowIdx, u)
				csc.Vals = append(csc.Vals, -rho)
			}
		}
	}
	csc.ColPtr[n] = len(csc.RowIdx)

	return csc
}

// Dense reconstructs the full symmetric n×n matrix from the CSC lower
// triangle, for use by the gonum-based cross-check path (FactorDense)
// only. Factor never calls Dense: its numeric factorization runs
// directly over the CSC column lists.
func (c *CSC) Dense() [][]float64 {
	a := make([][]float64, c.N)
	for i := range a {
		a[i] = make([]float64, c.N)
	}
	for col := 0; col < c.N; col++ {
		for k := c.ColPtr[col]; k < c.ColPtr[col+1]; k++ {
			row := c.RowIdx[k]
			a[row][col] = c.Vals[k]
			a[col][row] = c.Vals[k]
		}
	}
	return a
}
