// Package testutil builds small, deterministic fusion-graph fixtures for
// the carp/cbass/isp test suites, by composing the kept builder package's
// topology constructors and converting the result via fusiongraph.FromCore.
package testutil

import (
	"github.com/regpath/carp/builder"
	"github.com/regpath/carp/core"
	"github.com/regpath/carp/fusiongraph"
)

// CompleteGraph returns the complete fusion graph on n observations with
// unit edge weights (every pair is a neighbor), grounded on builder.Complete.
func CompleteGraph(n, p int) (*fusiongraph.Graph, error) {
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithWeighted()},
		nil,
		builder.Complete(n),
	)
	if err != nil {
		return nil, err
	}
	return fusiongraph.FromCore(g, p, true)
}

// PathGraph returns the path fusion graph 0-1-2-...-(n-1), grounded on
// builder.Path.
func PathGraph(n, p int) (*fusiongraph.Graph, error) {
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithWeighted()},
		nil,
		builder.Path(n),
	)
	if err != nil {
		return nil, err
	}
	return fusiongraph.FromCore(g, p, true)
}

// TwoTriangles returns two disjoint triangles (vertices 0,1,2 and 3,4,5),
// a "two well-separated clusters" fixture of the S2/S3 kind: convex clustering of two tight groups should fuse each
// triangle internally long before the two groups fuse with each other.
func TwoTriangles(p int) (*fusiongraph.Graph, error) {
	gA, err := builder.BuildGraph([]core.GraphOption{core.WithWeighted()}, nil, builder.Complete(3))
	if err != nil {
		return nil, err
	}
	gB, err := builder.BuildGraph([]core.GraphOption{core.WithWeighted()}, nil, builder.Complete(3))
	if err != nil {
		return nil, err
	}

	edges := make([]fusiongraph.Edge, 0, 6)
	fgA, err := fusiongraph.FromCore(gA, p, true)
	if err != nil {
		return nil, err
	}
	fgB, err := fusiongraph.FromCore(gB, p, true)
	if err != nil {
		return nil, err
	}
	edges = append(edges, fgA.Edges()...)
	for _, e := range fgB.Edges() {
		edges = append(edges, fusiongraph.Edge{L: e.L + 3, M: e.M + 3, W: e.W})
	}

	return fusiongraph.New(fusiongraph.AxisRow, 6, p, edges)
}
