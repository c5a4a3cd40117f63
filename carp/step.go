package carp

import (
	"math"

	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
	"github.com/regpath/carp/prox"
)

// state is one full primal/split/dual iterate, used both as the kernel's
// working state and as the VIZ rollback snapshot.
type state struct {
	u, v, z []float64
	zeta    []float64 // length |E|, values 0.0 or 1.0
	gamma   float64
}

func (s state) clone() state {
	return state{
		u:     append([]float64(nil), s.u...),
		v:     append([]float64(nil), s.v...),
		z:     append([]float64(nil), s.z...),
		zeta:  append([]float64(nil), s.zeta...),
		gamma: s.gamma,
	}
}

// admmStep executes one full U/V/Z update plus fusion scan (spec.md
// §4.4 steps 1-4) at the given gamma, returning the new state. The
// caller (RunCARP's fixed schedule, or the VIZ state machine) owns
// deciding what to do with the result — record, roll back, or re-try at
// a different gamma.
func admmStep(g *fusiongraph.Graph, factor *precompute.Factorization, x, weights []float64, penalty prox.Penalty, rho, gamma float64, prev state) state {
	// U-step: b = x + D^T(rho*V - Z); solve A*U = b.
	rhoVminusZ := make([]float64, len(prev.v))
	for i := range rhoVminusZ {
		rhoVminusZ[i] = rho*prev.v[i] - prev.z[i]
	}
	dt := precompute.Dt(g, rhoVminusZ)
	b := make([]float64, len(x))
	for i := range b {
		b[i] = x[i] + dt[i]
	}
	u := factor.SolveBlock(g, b)

	// V-step: y = D*U + Z/rho; V = prox(y).
	du := precompute.D(g, u)
	y := make([]float64, len(du))
	for i := range y {
		y[i] = du[i] + prev.z[i]/rho
	}
	v := prox.Apply(penalty, y, weights, gamma, rho, g.Stride())

	// Z-step: Z <- Z + rho*(D*U - V).
	z := make([]float64, len(v))
	for i := range z {
		z[i] = prev.z[i] + rho*(du[i]-v[i])
	}

	// Fusion scan: zeta_i <- 1 iff edge i's block is identically zero.
	stride := g.Stride()
	zeta := make([]float64, g.NumEdges())
	for i := 0; i < g.NumEdges(); i++ {
		lo := i * stride
		if isZeroBlock(v[lo : lo+stride]) {
			zeta[i] = 1
		}
	}

	return state{u: u, v: v, z: z, zeta: zeta, gamma: gamma}
}

func isZeroBlock(block []float64) bool {
	for _, x := range block {
		if x != 0 {
			return false
		}
	}
	return true
}

// sumZeta returns the number of fused edges.
func sumZeta(zeta []float64) int {
	n := 0
	for _, z := range zeta {
		if z != 0 {
			n++
		}
	}
	return n
}

// zetaDelta returns the net change in the total fused count from prev to
// next (sumZeta(next) - sumZeta(prev)). The VIZ state machine uses it as
// Delta, the number of edges that fused in one step.
func zetaDelta(prevZeta, nextZeta []float64) int {
	return sumZeta(nextZeta) - sumZeta(prevZeta)
}

// allFinite reports whether every entry of all three slices is finite,
// used to detect NumericalOverflow at the end of a step.
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
