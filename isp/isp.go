// Package isp implements the Iterate Smoothing Post-processor of
// spec.md §4.7: a pure function turning a kernel's raw, Keep-strided path
// into the deduplicated, monotone, piecewise-constant-interpolated path
// that downstream dendrogram construction consumes.
package isp

import (
	"fmt"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/pathbuf"
)

// Path is the raw or smoothed bundle ISP operates on: one column per
// recorded (or interpolated) step, ordered by k.
type Path struct {
	U, V     *pathbuf.Buffer
	Zeta     *pathbuf.Buffer
	Gamma    []float64
	NumEdges int
}

// Smooth applies the monotonicity check and deduplication to a raw path,
// returning a new Path; piecewise-constant interpolation onto a fixed
// grid is done separately by InterpolateTo. raw must have at least one
// column; Smooth never mutates raw's buffers.
//
// Complexity: O(K·(|E| + dim)) where K is the retained column count.
func Smooth(raw Path) (Path, error) {
	k := raw.Zeta.Cols()
	if k == 0 {
		return Path{}, fmt.Errorf("%w: raw path has zero columns", carperr.ErrInvalidInput)
	}

	out := Path{
		U:        pathbuf.New(raw.U.Stride(), k),
		V:        pathbuf.New(raw.V.Stride(), k),
		Zeta:     pathbuf.New(raw.Zeta.Stride(), k),
		NumEdges: raw.NumEdges,
	}

	var lastSum int
	first := true

	for col := 0; col < k; col++ {
		zeta := raw.Zeta.Col(col)
		sum := sumZeta(zeta)

		if !first && sum == lastSum {
			// Deduplication: consecutive columns with the same fusion
			// count collapse; the first occurrence (already appended) is kept.
			continue
		}

		if !first && sum < lastSum {
			return Path{}, fmt.Errorf("%w: zeta sum decreased from %d to %d at column %d", carperr.ErrInvalidInput, lastSum, sum, col)
		}

		out.U.Append(raw.U.Col(col))
		out.V.Append(raw.V.Col(col))
		out.Zeta.Append(zeta)
		out.Gamma = append(out.Gamma, raw.Gamma[col])

		lastSum = sum
		first = false
	}

	out.U.Trim()
	out.V.Trim()
	out.Zeta.Trim()

	if out.Zeta.Cols() > 0 {
		finalSum := sumZeta(out.Zeta.Col(out.Zeta.Cols() - 1))
		if (finalSum == out.NumEdges) != (lastFullyFused(raw)) {
			return Path{}, fmt.Errorf("%w: final fusion count %d inconsistent with raw path's completion state", carperr.ErrInvalidInput, finalSum)
		}
	}

	return out, nil
}

// InterpolateTo fills p out to exactly targetCols columns by repeating
// the most recently retained column (piecewise-constant interpolation),
// used when a caller needs a fixed-length grid (e.g. for plotting) rather
// than the ISP's native variable-length event sequence.
func InterpolateTo(p Path, targetCols int) (Path, error) {
	cols := p.Zeta.Cols()
	if cols == 0 || targetCols < cols {
		return Path{}, fmt.Errorf("%w: targetCols=%d must be >= existing %d retained columns", carperr.ErrInvalidInput, targetCols, cols)
	}

	out := Path{
		U:        pathbuf.New(p.U.Stride(), targetCols),
		V:        pathbuf.New(p.V.Stride(), targetCols),
		Zeta:     pathbuf.New(p.Zeta.Stride(), targetCols),
		NumEdges: p.NumEdges,
		Gamma:    make([]float64, 0, targetCols),
	}

	lastCol := 0
	for col := 0; col < targetCols; col++ {
		if col < cols {
			lastCol = col
		}
		out.U.Append(p.U.Col(lastCol))
		out.V.Append(p.V.Col(lastCol))
		out.Zeta.Append(p.Zeta.Col(lastCol))
		out.Gamma = append(out.Gamma, p.Gamma[lastCol])
	}

	out.U.Trim()
	out.V.Trim()
	out.Zeta.Trim()
	return out, nil
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

// lastFullyFused reports whether the raw path's final column has every
// edge fused — the ground truth Smooth's invariant check compares against.
func lastFullyFused(raw Path) bool {
	last := raw.Zeta.Col(raw.Zeta.Cols() - 1)
	return sumZeta(last) == raw.NumEdges
}
