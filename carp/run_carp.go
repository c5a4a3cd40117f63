package carp

import (
	"context"
	"fmt"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
)

// RunCARP runs the plain path-tracking ADMM kernel (PathKernel) of
// spec.md §4.4: one ADMM step per iteration, with gamma held at Gamma0
// through BurnIn iterations and then multiplied by T after each
// subsequent iteration, until every edge fuses or MaxIter is reached.
//
// x is the n*p observation-major data vector; edges are the fusion
// graph's edge list (0-based endpoints, matching fusiongraph.Edge — see
// DESIGN.md on why this module uses 0-based indices uniformly rather
// than spec.md's 1-based external convention). uInit/vInit seed U0/V0;
// Z0 starts at zero, matching spec.md §4.4's "U0, V0, Z0 provided by
// the caller" with Z's zero scaled-dual start being the conventional
// ADMM initialization.
func RunCARP(ctx context.Context, x []float64, n, p int, edges []fusiongraph.Edge, uInit, vInit []float64, cfg Config) (Result, error) {
	if cfg.Variant == Viz {
		return Result{}, fmt.Errorf("%w: RunCARP called with Variant=Viz; use RunCARPViz", carperr.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(x) != n*p {
		return Result{}, fmt.Errorf("%w: len(x)=%d != n*p=%d", carperr.ErrInvalidInput, len(x), n*p)
	}
	if len(uInit) != n*p {
		return Result{}, fmt.Errorf("%w: len(uInit)=%d != n*p=%d", carperr.ErrInvalidInput, len(uInit), n*p)
	}

	g, err := fusiongraph.New(fusiongraph.AxisRow, n, p, edges)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", carperr.ErrInvalidInput, err)
	}
	if len(vInit) != g.NumEdges()*p {
		return Result{}, fmt.Errorf("%w: len(vInit)=%d != |E|*p=%d", carperr.ErrInvalidInput, len(vInit), g.NumEdges()*p)
	}

	weights := make([]float64, g.NumEdges())
	for i, e := range g.Edges() {
		weights[i] = e.W
	}

	factor, err := precompute.Factor(g, cfg.Rho)
	if err != nil {
		return Result{}, err
	}

	cur := state{
		u:     append([]float64(nil), uInit...),
		v:     append([]float64(nil), vInit...),
		z:     make([]float64, g.NumEdges()*p),
		zeta:  make([]float64, g.NumEdges()),
		gamma: cfg.Gamma0,
	}
	for i := 0; i < g.NumEdges(); i++ {
		lo, hi := g.Block(i)
		if isZeroBlock(cur.v[lo:hi]) {
			cur.zeta[i] = 1
		}
	}

	rec := newRecorder(n, p, g.NumEdges(), initialCapacity(n))
	rec.record(cur)

	status := carperr.Status{Kind: carperr.Completed}

	for k := 1; k <= cfg.MaxIter; k++ {
		if k%cfg.CheckCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				cfg.Logger.Debug("carp: cancelled", "iter", k)
				status = carperr.Status{Kind: carperr.Cancelled}
				break
			}
		}

		next := admmStep(g, factor, x, weights, cfg.Penalty, cfg.Rho, cur.gamma, cur)

		if !allFinite(next.u, next.v, next.z) {
			cfg.Logger.Warn("carp: numerical overflow", "iter", k)
			status = carperr.Status{Kind: carperr.NumericalOverflow}
			break
		}

		if rec.shouldRecord(k, cfg.Keep, next.zeta) {
			rec.record(next)
		}
		cur = next

		if sumZeta(cur.zeta) == g.NumEdges() {
			status = carperr.Status{Kind: carperr.Completed}
			break
		}
		if k >= cfg.BurnIn {
			cur.gamma *= cfg.T
		}
		if k == cfg.MaxIter {
			status = carperr.Status{Kind: carperr.MaxIterReached}
		}
	}

	rec.trim()

	return Result{
		UPath:     rec.uPath,
		VPath:     rec.vPath,
		ZetaPath:  rec.zetaPath,
		GammaPath: rec.gammaPath,
		Status:    status,
	}, nil
}
