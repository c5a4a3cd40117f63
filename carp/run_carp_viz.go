package carp

import (
	"context"
	"fmt"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
)

// vizPhase is the VIZ back-tracking state machine's state (spec.md
// §4.5). Done is modeled as the loop's own termination check rather
// than a distinct switch case, since it carries no behavior of its own.
type vizPhase int

const (
	vizBurnIn vizPhase = iota
	vizCoarse
)

// RunCARPViz runs the back-tracking variant (VizKernel / CARP-VIZ) of
// spec.md §4.5: after burn-in, every outer step either accepts a coarse
// gamma expansion that fused nothing (Delta=0) or rolls it back and
// bisects toward the smallest expansion that fuses exactly one edge,
// guaranteeing a dendrogram-safe path. Unlike RunCARP, every accepted
// step is recorded — there is no Keep-stride under VIZ.
func RunCARPViz(ctx context.Context, x []float64, n, p int, edges []fusiongraph.Edge, uInit, vInit []float64, cfg Config) (Result, error) {
	if cfg.Variant == Plain {
		return Result{}, fmt.Errorf("%w: RunCARPViz called with Variant=Plain; use RunCARP", carperr.ErrInvalidInput)
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
	phase := vizBurnIn

loop:
	for k := 1; k <= cfg.MaxIter; k++ {
		if k%cfg.CheckCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				cfg.Logger.Debug("carp-viz: cancelled", "iter", k)
				status.Kind = carperr.Cancelled
				break loop
			}
		}

		switch phase {
		case vizBurnIn:
			next := admmStep(g, factor, x, weights, cfg.Penalty, cfg.Rho, cur.gamma, cur)
			if !allFinite(next.u, next.v, next.z) {
				status.Kind = carperr.NumericalOverflow
				break loop
			}
			rec.record(next)
			cur = next
			if k >= cfg.BurnIn {
				phase = vizCoarse
				cfg.Logger.Debug("carp-viz: burn-in complete, entering Coarse", "iter", k)
			}

		case vizCoarse:
			candidate := cur.gamma * cfg.VizTCoarse
			coarseStep := admmStep(g, factor, x, weights, cfg.Penalty, cfg.Rho, candidate, cur)
			if !allFinite(coarseStep.u, coarseStep.v, coarseStep.z) {
				status.Kind = carperr.NumericalOverflow
				break loop
			}
			delta := zetaDelta(cur.zeta, coarseStep.zeta)

			if delta == 0 {
				rec.record(coarseStep)
				cur = coarseStep
				break
			}

			committed, multi := bisect(g, factor, x, weights, cfg, cur, cur.gamma, candidate, coarseStep, delta)
			rec.record(committed)
			cur = committed
			if multi {
				cfg.Logger.Warn("carp-viz: bisection exhausted, tagging MultiMerge", "iter", k)
				status = status.WithMultiMerge(k)
			}
		}

		if sumZeta(cur.zeta) == g.NumEdges() {
			break loop
		}
		if k == cfg.MaxIter && status.Kind != carperr.MultiMerge {
			status.Kind = carperr.MaxIterReached
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

// bisect narrows gamma down from high toward low by repeated geometric
// shrink with factor cfg.VizTSwitch (spec.md §4.5's literal "repeatedly
// try a geometric shrink of gamma toward the pre-step gamma with factor
// t_switch"), seeking the smallest expansion whose step fuses exactly
// one edge relative to cur. low is the pre-step gamma (cur itself fuses
// nothing); high/highStep/highDelta is the already-evaluated coarse
// candidate, known to fuse at least one. Returns the step to commit and
// whether the commit had to settle for Delta>=2 (MultiMerge).
func bisect(g *fusiongraph.Graph, factor *precompute.Factorization, x, weights []float64, cfg Config, cur state, low, high float64, highStep state, highDelta int) (state, bool) {
	bestStep := highStep
	bestDelta := highDelta
	gamma := high

	for attempt := 0; attempt < cfg.VizBisectBudget && bestDelta != 1; attempt++ {
		gamma /= cfg.VizTSwitch
		if gamma <= low {
			// Shrunk past the pre-step gamma without isolating Delta=1;
			// nothing smaller is worth trying. Keep whatever was found.
			break
		}
		trial := admmStep(g, factor, x, weights, cfg.Penalty, cfg.Rho, gamma, cur)
		delta := zetaDelta(cur.zeta, trial.zeta)

		switch {
		case delta == 0:
			// Shrunk past the boundary where anything fuses at all;
			// the last fusing candidate found so far is the best.
			return bestStep, bestDelta != 1
		case delta == 1:
			bestStep, bestDelta = trial, 1
		default: // delta >= 2
			bestStep, bestDelta = trial, delta
		}
	}

	return bestStep, bestDelta != 1
}
