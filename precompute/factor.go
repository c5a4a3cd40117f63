package precompute

import (
	"fmt"
	"math"
	"sort"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
)

// Factorization is a reusable Cholesky factor of A_scalar = I + rho*L,
// shared across every channel (Stride()) and every iteration of a path.
// L is stored column-by-column, each column holding only the rows that
// carry a nonzero entry (diagonal first, ascending row order) — the
// natural-ordering fill-in pattern of the factorization. No n×n dense
// array is ever allocated by Factor or Solve.
type Factorization struct {
	n       int
	colRow  [][]int     // per column j: sorted row indices i>=j with L[i][j] != 0
	colVal  [][]float64 // per column j: matching values, colVal[j][0] is L[j][j]
	diagInv []float64   // 1/L[j][j], cached for Solve
}

// Factor builds A_scalar in CSC form from g's adjacency and computes its
// Cholesky factor via a left-looking, natural-ordering (no fill-reducing
// reordering) sparse numeric factorization: column j is updated only by
// the earlier columns that actually carry a nonzero in row j, and only
// the rows touched by fill-in are ever stored. Documented limitation:
// without reordering, fill-in is not minimized, so a densely connected
// component still factors close to a dense column count — this is sized
// for the sparse edge sets convex clustering/biclustering produces, not
// for reordering-dependent large-scale sparse solves.
//
// Fails with carperr.ErrLinAlg if a zero or negative pivot is
// encountered (should not happen for rho>0; an isolated vertex still
// factors fine since its diagonal is exactly 1).
func Factor(g *fusiongraph.Graph, rho float64) (*Factorization, error) {
	if rho <= 0 {
		return nil, fmt.Errorf("%w: rho must be > 0, got %g", carperr.ErrInvalidInput, rho)
	}
	return choleskySparse(buildA(g, rho))
}

// choleskySparse runs the left-looking numeric factorization directly
// over csc's column lists. rowUses[i] tracks, for each row i, which
// already-finalized columns k<i carry a nonzero at row i — the standard
// bookkeeping that lets column j gather exactly the updates it needs
// instead of rescanning every earlier column.
func choleskySparse(csc *CSC) (*Factorization, error) {
	n := csc.N
	colRow := make([][]int, n)
	colVal := make([][]float64, n)
	diagInv := make([]float64, n)
	rowUses := make([][]int, n)

	work := make(map[int]float64, 16) // scratch column accumulator, reset per j
	for j := 0; j < n; j++ {
		for row := range work {
			delete(work, row)
		}
		for p := csc.ColPtr[j]; p < csc.ColPtr[j+1]; p++ {
			work[csc.RowIdx[p]] = csc.Vals[p]
		}

		for _, k := range rowUses[j] {
			ljk := lookupCol(colRow[k], colVal[k], j)
			rows, vals := colRow[k], colVal[k]
			for idx, i := range rows {
				if i < j {
					continue
				}
				work[i] -= vals[idx] * ljk
			}
		}

		pivot, ok := work[j]
		if !ok || pivot <= 0 || math.IsNaN(pivot) {
			return nil, fmt.Errorf("%w: non-positive pivot at column %d", carperr.ErrLinAlg, j)
		}
		ljj := math.Sqrt(pivot)

		rows := make([]int, 0, len(work))
		for row := range work {
			rows = append(rows, row)
		}
		sort.Ints(rows)

		vals := make([]float64, len(rows))
		for idx, i := range rows {
			if i == j {
				vals[idx] = ljj
			} else {
				vals[idx] = work[i] / ljj
				rowUses[i] = append(rowUses[i], j)
			}
		}
		colRow[j] = rows
		colVal[j] = vals
		diagInv[j] = 1 / ljj
	}

	return &Factorization{n: n, colRow: colRow, colVal: colVal, diagInv: diagInv}, nil
}

// lookupCol returns the value stored at row within a column's sorted
// (rows, vals) pair via binary search. row is always present by
// construction (it is exactly the column k's contribution to row j that
// choleskySparse is iterating rowUses[j] to find).
func lookupCol(rows []int, vals []float64, row int) float64 {
	lo, hi := 0, len(rows)
	for lo < hi {
		mid := (lo + hi) / 2
		if rows[mid] < row {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(rows) && rows[lo] == row {
		return vals[lo]
	}
	return 0
}

// Solve solves A*x = b for a single Count()-length right-hand side via
// sparse, column-oriented forward/back substitution against the cached
// factor: each pass touches only the stored nonzeros of L, not a
// materialized n×n array.
func (f *Factorization) Solve(b []float64) []float64 {
	x := make([]float64, f.n)
	copy(x, b)

	// Forward solve: L y = b.
	for j := 0; j < f.n; j++ {
		rows, vals := f.colRow[j], f.colVal[j]
		x[j] *= f.diagInv[j]
		for idx := 1; idx < len(rows); idx++ {
			x[rows[idx]] -= vals[idx] * x[j]
		}
	}

	// Back solve: L^T x = y.
	for j := f.n - 1; j >= 0; j-- {
		rows, vals := f.colRow[j], f.colVal[j]
		sum := x[j]
		for idx := 1; idx < len(rows); idx++ {
			sum -= vals[idx] * x[rows[idx]]
		}
		x[j] = sum * f.diagInv[j]
	}

	return x
}

// SolveBlock solves the full Count()*Stride() system carried by g's
// shared primal buffer by running Solve independently over each of
// Stride() coordinate channels. g's Extract/ScatterAdd handle the
// contiguous-vs-strided layout difference between AxisRow and AxisCol,
// so the same Factorization (built from the same g) can serve either
// axis's channel loop without the caller needing to know the layout.
func (f *Factorization) SolveBlock(g *fusiongraph.Graph, rhs []float64) []float64 {
	count, stride := g.Count(), g.Stride()

	blocks := make([][]float64, count)
	for v := 0; v < count; v++ {
		blocks[v] = g.Extract(rhs, v)
	}

	out := make([]float64, len(rhs))
	b := make([]float64, count)
	for c := 0; c < stride; c++ {
		for v := 0; v < count; v++ {
			b[v] = blocks[v][c]
		}
		x := f.Solve(b)
		for v := 0; v < count; v++ {
			g.ScatterAddAt(out, v, c, x[v])
		}
	}
	return out
}
