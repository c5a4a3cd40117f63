package cbass

import (
	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/pathbuf"
)

// Result mirrors carp.Result but carries both axes' split/fusion paths
// against one shared U-path (spec.md §6: run_cbass "outputs mirror
// run_carp but with v_path_row, v_path_col, zeta_path_row, zeta_path_col").
type Result struct {
	UPath                  *pathbuf.Buffer
	VPathRow, VPathCol     *pathbuf.Buffer
	ZetaPathRow, ZetaPathCol *pathbuf.Buffer
	GammaPath              []float64
	Status                 carperr.Status
}

type recorder struct {
	uPath                    *pathbuf.Buffer
	vPathRow, vPathCol       *pathbuf.Buffer
	zetaPathRow, zetaPathCol *pathbuf.Buffer
	gammaPath                []float64
	lastZetaRow, lastZetaCol []float64
}

func newRecorder(n, p, numEdgesRow, numEdgesCol, strideRow, strideCol, initialCols int) *recorder {
	return &recorder{
		uPath:       pathbuf.New(n*p, initialCols),
		vPathRow:    pathbuf.New(numEdgesRow*strideRow, initialCols),
		vPathCol:    pathbuf.New(numEdgesCol*strideCol, initialCols),
		zetaPathRow: pathbuf.New(numEdgesRow, initialCols),
		zetaPathCol: pathbuf.New(numEdgesCol, initialCols),
	}
}

// shouldRecord applies carp's set-union Keep policy (DESIGN.md OQ-2)
// jointly across both axes: retain if either axis's zeta changed since
// the last retained column, or k mod Keep == 0.
func (r *recorder) shouldRecord(k, keep int, zetaRow, zetaCol []float64) bool {
	if r.lastZetaRow == nil {
		return true
	}
	if keep > 0 && k%keep == 0 {
		return true
	}
	for i := range zetaRow {
		if zetaRow[i] != r.lastZetaRow[i] {
			return true
		}
	}
	for i := range zetaCol {
		if zetaCol[i] != r.lastZetaCol[i] {
			return true
		}
	}
	return false
}

func (r *recorder) record(s state) {
	r.uPath.Append(s.u)
	r.vPathRow.Append(s.vRow)
	r.vPathCol.Append(s.vCol)
	r.zetaPathRow.Append(s.zetaRow)
	r.zetaPathCol.Append(s.zetaCol)
	r.gammaPath = append(r.gammaPath, s.gamma)
	r.lastZetaRow = s.zetaRow
	r.lastZetaCol = s.zetaCol
}

func (r *recorder) trim() {
	r.uPath.Trim()
	r.vPathRow.Trim()
	r.vPathCol.Trim()
	r.zetaPathRow.Trim()
	r.zetaPathCol.Trim()
}

func initialCapacity(n int) int {
	c := (3*n + 1) / 2
	if c < 1 {
		c = 1
	}
	return c
}
