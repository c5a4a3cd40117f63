package carp

import (
	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/pathbuf"
)

// Result is the immutable bundle returned by RunCARP/RunCARPViz: the
// path buffers plus the terminal status.
type Result struct {
	UPath     *pathbuf.Buffer
	VPath     *pathbuf.Buffer
	ZetaPath  *pathbuf.Buffer
	GammaPath []float64
	Status    carperr.Status
}

// recorder accumulates path columns and the logic for whether a given
// step qualifies as a retained column under Config.Keep's set-union
// policy (spec.md §4.4 step 5 / DESIGN.md OQ-2): retain when zeta
// changed since the last retained column, OR when k mod Keep == 0.
type recorder struct {
	uPath, vPath, zetaPath *pathbuf.Buffer
	gammaPath              []float64
	lastZeta               []float64
}

func newRecorder(n, p, numEdges, initialCols int) *recorder {
	return &recorder{
		uPath:    pathbuf.New(n*p, initialCols),
		vPath:    pathbuf.New(numEdges*p, initialCols),
		zetaPath: pathbuf.New(numEdges, initialCols),
	}
}

func (r *recorder) shouldRecord(k int, keep int, zeta []float64) bool {
	if r.lastZeta == nil {
		return true
	}
	if keep > 0 && k%keep == 0 {
		return true
	}
	for i := range zeta {
		if zeta[i] != r.lastZeta[i] {
			return true
		}
	}
	return false
}

func (r *recorder) record(s state) {
	r.uPath.Append(s.u)
	r.vPath.Append(s.v)
	r.zetaPath.Append(s.zeta)
	r.gammaPath = append(r.gammaPath, s.gamma)
	r.lastZeta = s.zeta
}

func (r *recorder) trim() {
	r.uPath.Trim()
	r.vPath.Trim()
	r.zetaPath.Trim()
}

// initialCapacity returns spec.md §3's ceil(1.5n) initial path-buffer
// column capacity.
func initialCapacity(n int) int {
	c := (3*n + 1) / 2
	if c < 1 {
		c = 1
	}
	return c
}
