package cbass

import (
	"context"
	"fmt"

	"github.com/regpath/carp/carp"
	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
)

type vizPhase int

const (
	vizBurnIn vizPhase = iota
	vizCoarse
)

// RunCBASSViz runs CBASS's back-tracking variant: the same BurnIn ->
// Coarse -> Bisect -> Done state machine as carp.RunCARPViz, except Delta
// is the combined fusion count across both axes — "a fusion event in
// either direction counts as a step event" (spec.md §4.6).
func RunCBASSViz(ctx context.Context, x []float64, n, p int, edgesRow, edgesCol []fusiongraph.Edge, uInit, vRowInit, vColInit []float64, cfg Config) (Result, error) {
	if cfg.Variant == carp.Plain {
		return Result{}, fmt.Errorf("%w: RunCBASSViz called with Variant=Plain; use RunCBASS", carperr.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(x) != n*p || len(uInit) != n*p {
		return Result{}, fmt.Errorf("%w: x/uInit must have length n*p=%d", carperr.ErrInvalidInput, n*p)
	}

	gRow, err := fusiongraph.New(fusiongraph.AxisCol, n, p, edgesRow)
	if err != nil {
		return Result{}, fmt.Errorf("%w: row graph: %v", carperr.ErrInvalidInput, err)
	}
	gCol, err := fusiongraph.New(fusiongraph.AxisRow, n, p, edgesCol)
	if err != nil {
		return Result{}, fmt.Errorf("%w: col graph: %v", carperr.ErrInvalidInput, err)
	}
	if len(vRowInit) != gRow.NumEdges()*gRow.Stride() || len(vColInit) != gCol.NumEdges()*gCol.Stride() {
		return Result{}, fmt.Errorf("%w: vRowInit/vColInit have wrong length", carperr.ErrInvalidInput)
	}

	wRow := make([]float64, gRow.NumEdges())
	for i, e := range gRow.Edges() {
		wRow[i] = e.W
	}
	wCol := make([]float64, gCol.NumEdges())
	for i, e := range gCol.Edges() {
		wCol[i] = e.W
	}

	factorRow, err := precompute.Factor(gRow, cfg.Rho)
	if err != nil {
		return Result{}, err
	}
	factorCol, err := precompute.Factor(gCol, cfg.Rho)
	if err != nil {
		return Result{}, err
	}

	cur := state{
		u:     append([]float64(nil), uInit...),
		vRow:  append([]float64(nil), vRowInit...),
		zRow:  make([]float64, gRow.NumEdges()*gRow.Stride()),
		vCol:  append([]float64(nil), vColInit...),
		zCol:  make([]float64, gCol.NumEdges()*gCol.Stride()),
		gamma: cfg.Gamma0,
	}
	cur.zetaRow = fusionScan(gRow, cur.vRow)
	cur.zetaCol = fusionScan(gCol, cur.vCol)

	rec := newRecorder(n, p, gRow.NumEdges(), gCol.NumEdges(), gRow.Stride(), gCol.Stride(), initialCapacity(n))
	rec.record(cur)

	status := carperr.Status{Kind: carperr.Completed}
	phase := vizBurnIn

loop:
	for k := 1; k <= cfg.MaxIter; k++ {
		if k%cfg.CheckCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				cfg.Logger.Debug("cbass-viz: cancelled", "iter", k)
				status.Kind = carperr.Cancelled
				break loop
			}
		}

		switch phase {
		case vizBurnIn:
			next := admmStep(gRow, gCol, factorRow, factorCol, x, wRow, wCol, cfg.Penalty, cfg.Rho, cur.gamma, cur)
			if !allFinite(next.u, next.vRow, next.vCol, next.zRow, next.zCol) {
				status.Kind = carperr.NumericalOverflow
				break loop
			}
			rec.record(next)
			cur = next
			if k >= cfg.BurnIn {
				phase = vizCoarse
				cfg.Logger.Debug("cbass-viz: burn-in complete, entering Coarse", "iter", k)
			}

		case vizCoarse:
			candidate := cur.gamma * cfg.VizTCoarse
			coarseStep := admmStep(gRow, gCol, factorRow, factorCol, x, wRow, wCol, cfg.Penalty, cfg.Rho, candidate, cur)
			if !allFinite(coarseStep.u, coarseStep.vRow, coarseStep.vCol, coarseStep.zRow, coarseStep.zCol) {
				status.Kind = carperr.NumericalOverflow
				break loop
			}
			delta := totalDelta(cur, coarseStep)

			if delta == 0 {
				rec.record(coarseStep)
				cur = coarseStep
				break
			}

			committed, multi := bisect(gRow, gCol, factorRow, factorCol, x, wRow, wCol, cfg, cur, cur.gamma, candidate, coarseStep, delta)
			rec.record(committed)
			cur = committed
			if multi {
				cfg.Logger.Warn("cbass-viz: bisection exhausted, tagging MultiMerge", "iter", k)
				status = status.WithMultiMerge(k)
			}
		}

		if sumZeta(cur.zetaRow) == gRow.NumEdges() && sumZeta(cur.zetaCol) == gCol.NumEdges() {
			break loop
		}
		if k == cfg.MaxIter && status.Kind != carperr.MultiMerge {
			status.Kind = carperr.MaxIterReached
		}
	}

	rec.trim()

	return Result{
		UPath:       rec.uPath,
		VPathRow:    rec.vPathRow,
		VPathCol:    rec.vPathCol,
		ZetaPathRow: rec.zetaPathRow,
		ZetaPathCol: rec.zetaPathCol,
		GammaPath:   rec.gammaPath,
		Status:      status,
	}, nil
}

// bisect narrows gamma down from high toward low by repeated geometric
// shrink with factor cfg.VizTSwitch, mirroring carp.bisect's reading of
// spec.md §4.5 for the two-axis Delta (see totalDelta).
func bisect(gRow, gCol *fusiongraph.Graph, factorRow, factorCol *precompute.Factorization, x, wRow, wCol []float64, cfg Config, cur state, low, high float64, highStep state, highDelta int) (state, bool) {
	bestStep := highStep
	bestDelta := highDelta
	gamma := high

	for attempt := 0; attempt < cfg.VizBisectBudget && bestDelta != 1; attempt++ {
		gamma /= cfg.VizTSwitch
		if gamma <= low {
			break
		}
		trial := admmStep(gRow, gCol, factorRow, factorCol, x, wRow, wCol, cfg.Penalty, cfg.Rho, gamma, cur)
		delta := totalDelta(cur, trial)

		switch {
		case delta == 0:
			return bestStep, bestDelta != 1
		case delta == 1:
			bestStep, bestDelta = trial, 1
		default:
			bestStep, bestDelta = trial, delta
		}
	}

	return bestStep, bestDelta != 1
}
