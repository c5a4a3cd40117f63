// SPDX-License-Identifier: MIT
// Package: lvlath/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Sentinels are NEVER wrapped with formatted strings at definition site.
//   • Implementations SHOULD attach context using `%w` (see AI-Hints below).
//   • Algorithms MUST NOT panic at runtime; validation panics are confined to
//     option constructor functions (WithX...), per lvlath 99-rules.
//
// AI-Hints (practical guidance for implementers and LLMs):
//   • Wrap lower-level errors with method context: fmt.Errorf("%s: %w", methodComplete, err).
//   • Return ONLY these sentinels for validation classes (size/construction).
//   • Do NOT stringify parameters into sentinel definitions; use %w wrapping instead.
//   • Check with errors.Is in tests and production code; avoid string comparisons.

package builder

import (
	"errors"
)

// ErrTooFewVertices indicates that a numeric parameter (e.g., n) is smaller
// than the allowed minimum for the requested constructor.
// Classification: Validation error (parameters).
// Typical origins: Complete/Path (n constraints).
// Usage: if errors.Is(err, ErrTooFewVertices) { /* report invalid size */ }.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrConstructFailed indicates that BuildGraph was invoked with a nil
// constructor or otherwise could not complete construction.
// Usage: if errors.Is(err, ErrConstructFailed) { /* retry with different input */ }.
var ErrConstructFailed = errors.New("builder: construction failed")

// --- Implementation Notes ----------------------------------------------------
//
// 1) Priority (tie-break guidance when multiple validations fail):
//    • ErrTooFewVertices  — size/domain checks first (n).
//    • ErrConstructFailed — only once BuildGraph's own invariants are violated.
//
// 2) Testing guidance:
//    Use table tests asserting errors.Is(err, ErrX). Avoid matching error strings.
//
// 3) Compatibility:
//    These names and messages are stable and form part of the public contract.
//    Do not rename or change messages.
