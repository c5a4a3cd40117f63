package cbass

import (
	"context"
	"fmt"

	"github.com/regpath/carp/carp"
	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/precompute"
)

// RunCBASS runs the plain (fixed geometric schedule) biclustering kernel
// of spec.md §4.6 over observation data x (n*p, observation-major),
// fusing variables (columns) per edgesRow and observations (rows) per
// edgesCol, sharing one primal U throughout.
func RunCBASS(ctx context.Context, x []float64, n, p int, edgesRow, edgesCol []fusiongraph.Edge, uInit, vRowInit, vColInit []float64, cfg Config) (Result, error) {
	if cfg.Variant == carp.Viz {
		return Result{}, fmt.Errorf("%w: RunCBASS called with Variant=Viz; use RunCBASSViz", carperr.ErrInvalidInput)
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
	if len(vRowInit) != gRow.NumEdges()*gRow.Stride() {
		return Result{}, fmt.Errorf("%w: vRowInit has wrong length", carperr.ErrInvalidInput)
	}
	if len(vColInit) != gCol.NumEdges()*gCol.Stride() {
		return Result{}, fmt.Errorf("%w: vColInit has wrong length", carperr.ErrInvalidInput)
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

	for k := 1; k <= cfg.MaxIter; k++ {
		if k%cfg.CheckCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				cfg.Logger.Debug("cbass: cancelled", "iter", k)
				status = carperr.Status{Kind: carperr.Cancelled}
				break
			}
		}

		next := admmStep(gRow, gCol, factorRow, factorCol, x, wRow, wCol, cfg.Penalty, cfg.Rho, cur.gamma, cur)

		if !allFinite(next.u, next.vRow, next.vCol, next.zRow, next.zCol) {
			cfg.Logger.Warn("cbass: numerical overflow", "iter", k)
			status = carperr.Status{Kind: carperr.NumericalOverflow}
			break
		}

		if rec.shouldRecord(k, cfg.Keep, next.zetaRow, next.zetaCol) {
			rec.record(next)
		}
		cur = next

		if sumZeta(cur.zetaRow) == gRow.NumEdges() && sumZeta(cur.zetaCol) == gCol.NumEdges() {
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
		UPath:       rec.uPath,
		VPathRow:    rec.vPathRow,
		VPathCol:    rec.vPathCol,
		ZetaPathRow: rec.zetaPathRow,
		ZetaPathCol: rec.zetaPathCol,
		GammaPath:   rec.gammaPath,
		Status:      status,
	}, nil
}

func fusionScan(g *fusiongraph.Graph, v []float64) []float64 {
	stride := g.Stride()
	zeta := make([]float64, g.NumEdges())
	for i := 0; i < g.NumEdges(); i++ {
		lo := i * stride
		if isZeroBlock(v[lo : lo+stride]) {
			zeta[i] = 1
		}
	}
	return zeta
}
