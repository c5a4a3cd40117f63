// Package pathbuf provides the append-only, doubling-capacity column
// store shared by every path buffer in carp/cbass (U, V, Z, zeta, gamma).
// It generalizes the teacher's flat, strided dense-matrix representation
// (a single []float64 addressed by stride) into a growable column store,
// since the number of path columns K is not known ahead of a run.
package pathbuf

import "fmt"

// Buffer is a column-major, append-only store of stride-length columns.
// A Buffer is not safe for concurrent use; callers own exclusive access
// for the lifetime of one kernel run.
type Buffer struct {
	stride int
	data   []float64
	cols   int
}

// New allocates a Buffer for columns of length stride, with room for
// initialCols columns before the first growth. initialCols is clamped to
// at least 1.
func New(stride, initialCols int) *Buffer {
	if initialCols < 1 {
		initialCols = 1
	}
	return &Buffer{
		stride: stride,
		data:   make([]float64, 0, stride*initialCols),
	}
}

// Stride returns the fixed column length.
func (b *Buffer) Stride() int { return b.stride }

// Cols returns the current number of appended columns.
func (b *Buffer) Cols() int { return b.cols }

// Append copies col (which must have length Stride()) onto the end of
// the buffer, doubling the backing array's column capacity first if it
// is full.
//
// Complexity: amortized O(stride).
func (b *Buffer) Append(col []float64) {
	if len(col) != b.stride {
		panic(fmt.Sprintf("pathbuf: Append: column length %d != stride %d", len(col), b.stride))
	}
	if (b.cols+1)*b.stride > cap(b.data) {
		newCap := cap(b.data) * 2
		if newCap == 0 {
			newCap = b.stride
		}
		grown := make([]float64, len(b.data), newCap)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = b.data[:(b.cols+1)*b.stride]
	copy(b.data[b.cols*b.stride:(b.cols+1)*b.stride], col)
	b.cols++
}

// Col returns a read-only view (no copy) of column k. Callers must not
// mutate the returned slice; it aliases the buffer's backing array.
func (b *Buffer) Col(k int) []float64 {
	return b.data[k*b.stride : (k+1)*b.stride]
}

// Trim compacts the backing array down to exactly Cols()*Stride(),
// releasing any doubled-but-unused capacity. Called once at the end of a
// run, per the invariant that a returned path is compacted to exact
// length.
func (b *Buffer) Trim() {
	exact := make([]float64, len(b.data))
	copy(exact, b.data)
	b.data = exact
}
