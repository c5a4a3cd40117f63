// Package carp implements the algorithmic core of a convex clustering and
// biclustering solver based on Algorithmic Regularization Paths: CARP, its
// back-tracking variant CARP-VIZ, and the biclustering kernel CBASS.
//
// Given an n×p data matrix and a weighted fusion graph over observation
// pairs (and, for biclustering, variable pairs), the core computes an
// entire path of cluster estimates by driving one proximal-ADMM update per
// step while geometrically increasing a regularization level until every
// pair has fused. Fusion events are recorded along the way; ISP smooths
// the raw path into the monotone, deduplicated sequence a downstream
// dendrogram builder consumes.
//
// Package layout:
//
//	carperr/            — sentinel errors and the run-terminal Status type
//	fusiongraph/        — the EdgeGraph: an ordered edge set over the
//	                      observation or variable axis, with the index
//	                      bookkeeping every kernel needs to avoid ever
//	                      materializing D densely
//	pathbuf/            — the doubling-capacity column store backing
//	                      every path buffer
//	prox/               — the L1/L2 group soft-threshold proximal operators
//	precompute/         — the D/Dt operators and the cached Cholesky factor
//	                      of A = I + rho*D^T*D, reused across every step
//	                      of a path
//	carp/               — PathKernel (RunCARP) and VizKernel (RunCARPViz)
//	cbass/              — BiKernel (RunCBASS/RunCBASSViz), coupling two
//	                      PathKernels over a shared primal U
//	isp/                — the pure post-processor turning a raw path into
//	                      a monotone, deduplicated, piecewise-constant one
//	internal/testutil/  — synthetic fusion-graph fixtures for the test suite
//	cmd/carppath/       — a CLI front-end running a path over CSV input
//
// core/ and builder/ are retained graph-construction and synthetic-fixture
// primitives, adapted to build the fusion graphs this module's kernels
// consume (see fusiongraph.FromCore and internal/testutil).
package carp
