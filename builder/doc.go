// Package builder provides small, deterministic fixture constructors used by
// the test suites of carp/cbass/fusiongraph: Complete(n) and Path(n) graph
// topologies, plus the functional-options machinery (BuilderOption,
// builderConfig) that configures their vertex IDs and edge weights.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption:     a function that mutates builderConfig before use.
//     – builderConfig:     holds RNG, ID‐scheme, weight function.
//   - Vertex‐ID schemes (IDFn implementations):
//     – DefaultIDFn:       decimal strings ("0","1",…).
//     – SymbolIDFn:        single letters ("A","B",…).
//     – ExcelColumnIDFn:   Excel‐style columns ("A","Z","AA",…).
//     – AlphanumericIDFn:  base-36 strings ("0"…"z","10",…).
//     – HexIDFn:           lowercase hexadecimal ("0","a","ff",…).
//   - Edge‐weight distributions (WeightFn implementations):
//     – DefaultWeightFn:   constant weight DefaultEdgeWeight.
//     – ConstantWeightFn:  fixed user-provided value.
//     – UniformWeightFn:   uniform ∼U[min,max].
//     – NormalWeightFn:    Gaussian ∼N(mean,stddev), clipped.
//     – ExponentialWeightFn: exponential ∼Exp(rate).
//
// Guarantees:
//
//   - Re-running a builder on the same g does not duplicate vertices (AddVertex
//     is idempotent), but it adds its edges again: a graph without multi-edges
//     rejects them with core.ErrMultiEdgeNotAllowed, a multigraph gains
//     parallel edges.
//   - Fast‐fail on invalid option parameters via panics in option‐constructors.
//   - Documented algorithmic complexity (O(n), O(n²)) per constructor.
//   - Fully testable: IDFn, WeightFn, and BuilderOption branches are covered
//     by unit tests alongside their implementations.
//
// See individual function documentation for detailed contracts, panic conditions,
// parameter descriptions, and performance notes.
package builder
