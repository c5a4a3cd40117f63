package precompute

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
)

// FactorDense builds the same A_scalar = I + rho*L as Factor, but
// factors it with gonum's dense Cholesky instead of the hand-rolled
// sparse-assembled numeric factor. It exists as an independent oracle
// for the Factor/FactorDense cross-check test, not as a faster or
// larger-scale substitute for Factor; no kernel calls it.
func FactorDense(g *fusiongraph.Graph, rho float64) (*Factorization, error) {
	if rho <= 0 {
		return nil, fmt.Errorf("%w: rho must be > 0, got %g", carperr.ErrInvalidInput, rho)
	}
	dense := buildA(g, rho).Dense()
	n := len(dense)

	flat := make([]float64, n*n)
	for i, row := range dense {
		copy(flat[i*n:(i+1)*n], row)
	}
	sym := mat.NewSymDense(n, flat)

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%w: gonum Cholesky factorization failed (A not positive definite)", carperr.ErrLinAlg)
	}

	var lower mat.TriDense
	chol.LTo(&lower)

	colRow := make([][]int, n)
	colVal := make([][]float64, n)
	diagInv := make([]float64, n)
	for j := 0; j < n; j++ {
		rows := make([]int, 0, n-j)
		vals := make([]float64, 0, n-j)
		for i := j; i < n; i++ {
			rows = append(rows, i)
			vals = append(vals, lower.At(i, j))
		}
		colRow[j] = rows
		colVal[j] = vals
		diagInv[j] = 1 / vals[0]
	}

	return &Factorization{n: n, colRow: colRow, colVal: colVal, diagInv: diagInv}, nil
}
