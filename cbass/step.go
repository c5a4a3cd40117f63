// Package cbass implements the biclustering kernel (BiKernel / CBASS) of
// spec.md §4.6: two PathKernels — one over variable-pairs, one over
// observation-pairs — coupled through a single shared primal U.
package cbass

import (
	"math"

	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
	"github.com/regpath/carp/prox"
)

// state is one full shared iterate: the common primal U plus each axis's
// own split/dual/fusion vectors.
type state struct {
	u                []float64 // n*p shared
	vRow, zRow       []float64 // variable-pair axis: |Erow|*stride(gRow)
	vCol, zCol       []float64 // observation-pair axis: |Ecol|*stride(gCol)
	zetaRow, zetaCol []float64
	gamma            float64
}

func (s state) clone() state {
	return state{
		u:       append([]float64(nil), s.u...),
		vRow:    append([]float64(nil), s.vRow...),
		zRow:    append([]float64(nil), s.zRow...),
		vCol:    append([]float64(nil), s.vCol...),
		zCol:    append([]float64(nil), s.zCol...),
		zetaRow: append([]float64(nil), s.zetaRow...),
		zetaCol: append([]float64(nil), s.zetaCol...),
		gamma:   s.gamma,
	}
}

// admmStep executes one coupled outer step (spec.md §4.6): the shared
// U-step is split into two half-steps per DESIGN.md's OQ-4 resolution —
// solve the row (variable-pair) system holding the column contribution
// at its previous value, then solve the column (observation-pair) system
// holding the row's new value — followed by each axis's own independent
// V/Z update and fusion scan against the resulting shared U.
func admmStep(gRow, gCol *fusiongraph.Graph, factorRow, factorCol *precompute.Factorization, x, wRow, wCol []float64, penalty prox.Penalty, rho, gamma float64, prev state) state {
	rhoVZRow := rhoVMinusZ(prev.vRow, prev.zRow, rho)
	rhoVZCol := rhoVMinusZ(prev.vCol, prev.zCol, rho)

	dtRow := precompute.Dt(gRow, rhoVZRow)
	dtCol := precompute.Dt(gCol, rhoVZCol)

	b1 := addAll(x, dtRow, dtCol)
	uHalf := factorRow.SolveBlock(gRow, b1)

	duRow := precompute.D(gRow, uHalf)
	vRow, zRow, zetaRow := vzFusionStep(duRow, prev.zRow, wRow, penalty, gamma, rho, gRow.Stride())

	dtRow2 := precompute.Dt(gRow, rhoVMinusZ(vRow, zRow, rho))
	b2 := addAll(x, dtRow2, dtCol)
	uFinal := factorCol.SolveBlock(gCol, b2)

	duCol := precompute.D(gCol, uFinal)
	vCol, zCol, zetaCol := vzFusionStep(duCol, prev.zCol, wCol, penalty, gamma, rho, gCol.Stride())

	return state{
		u: uFinal,
		vRow: vRow, zRow: zRow, zetaRow: zetaRow,
		vCol: vCol, zCol: zCol, zetaCol: zetaCol,
		gamma: gamma,
	}
}

func rhoVMinusZ(v, z []float64, rho float64) []float64 {
	out := make([]float64, len(v))
	for i := range out {
		out[i] = rho*v[i] - z[i]
	}
	return out
}

func addAll(x []float64, extras ...[]float64) []float64 {
	b := append([]float64(nil), x...)
	for _, e := range extras {
		for i := range b {
			b[i] += e[i]
		}
	}
	return b
}

// vzFusionStep runs the V-step (proximal threshold), Z-step (dual
// update) and fusion scan for one axis given its half of the shared U
// already projected through D (du), mirroring carp's per-edge logic in
// step.go but parameterized over an arbitrary (weights, stride) axis.
func vzFusionStep(du, zPrev, weights []float64, penalty prox.Penalty, gamma, rho float64, stride int) (v, z, zeta []float64) {
	y := make([]float64, len(du))
	for i := range y {
		y[i] = du[i] + zPrev[i]/rho
	}
	v = prox.Apply(penalty, y, weights, gamma, rho, stride)

	z = make([]float64, len(v))
	for i := range z {
		z[i] = zPrev[i] + rho*(du[i]-v[i])
	}

	numEdges := len(v) / stride
	zeta = make([]float64, numEdges)
	for i := 0; i < numEdges; i++ {
		lo := i * stride
		if isZeroBlock(v[lo : lo+stride]) {
			zeta[i] = 1
		}
	}
	return v, z, zeta
}

func isZeroBlock(block []float64) bool {
	for _, x := range block {
		if x != 0 {
			return false
		}
	}
	return true
}

func sumZeta(zeta []float64) int {
	n := 0
	for _, z := range zeta {
		if z != 0 {
			n++
		}
	}
	return n
}

// totalDelta is the combined new-fusion count across both axes — "a
// fusion event in either direction counts as a step event" (spec.md §4.6).
func totalDelta(prev, next state) int {
	return (sumZeta(next.zetaRow) - sumZeta(prev.zetaRow)) + (sumZeta(next.zetaCol) - sumZeta(prev.zetaCol))
}

func allFinite(slices ...[]float64) bool {
	for _, s := range slices {
		for _, x := range s {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}
