// Package carp implements the path-tracking ADMM kernel (PathKernel /
// CARP) and its back-tracking variant (VizKernel / CARP-VIZ): one
// proximal-ADMM step per regularization level, riding a cached linear
// solve across an ever-increasing gamma schedule.
package carp

import (
	"fmt"
	"log/slog"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/prox"
)

// Variant selects between the plain path kernel and the back-tracking
// VIZ kernel.
type Variant int

const (
	// Plain runs the fixed geometric gamma schedule of spec.md §4.4.
	Plain Variant = iota

	// Viz runs the back-tracking state machine of spec.md §4.5,
	// guaranteeing exactly one new fusion per accepted step.
	Viz
)

// Config bundles every tunable of a RunCARP/RunCARPViz call. The literal
// spec.md §6 field list is {Gamma0, T, Rho, MaxIter, BurnIn, Keep,
// Penalty, Variant, VizTCoarse, VizTSwitch}; Logger, CheckCancelEvery,
// and VizBisectBudget are additions needed for a usable Go API (see
// DESIGN.md).
type Config struct {
	Gamma0  float64
	T       float64
	Rho     float64
	MaxIter int
	BurnIn  int
	Keep    int
	Penalty prox.Penalty
	Variant Variant

	// VizTCoarse is the coarse gamma-expansion factor tried first in the
	// Coarse state (e.g. 10).
	VizTCoarse float64

	// VizTSwitch is the geometric shrink factor used while bisecting
	// toward a single fusion (e.g. 1.01).
	VizTSwitch float64

	// VizBisectBudget bounds how many bisection attempts are made per
	// outer step before committing with a MultiMerge tag.
	VizBisectBudget int

	// Logger receives Debug-level step traces and Warn-level state
	// transitions/MultiMerge tags. Nil uses slog.Default().
	Logger *slog.Logger

	// CheckCancelEvery is how often (in iterations) ctx.Err() is
	// polled; spec.md's "every I iterations" (default 50).
	CheckCancelEvery int
}

// Validate checks every field against spec.md §7's InvalidInput
// conditions and fills in the ambient defaults (Logger, CheckCancelEvery)
// when left zero.
func (c *Config) Validate() error {
	switch {
	case c.Gamma0 <= 0:
		return fmt.Errorf("%w: Gamma0 must be > 0, got %g", carperr.ErrInvalidInput, c.Gamma0)
	case c.T <= 1:
		return fmt.Errorf("%w: T must be > 1, got %g", carperr.ErrInvalidInput, c.T)
	case c.Rho <= 0:
		return fmt.Errorf("%w: Rho must be > 0, got %g", carperr.ErrInvalidInput, c.Rho)
	case c.MaxIter < 1:
		return fmt.Errorf("%w: MaxIter must be >= 1, got %d", carperr.ErrInvalidInput, c.MaxIter)
	case c.BurnIn < 1 || c.BurnIn >= c.MaxIter:
		return fmt.Errorf("%w: BurnIn must be in [1, MaxIter), got %d (MaxIter=%d)", carperr.ErrInvalidInput, c.BurnIn, c.MaxIter)
	case c.Keep < 1:
		return fmt.Errorf("%w: Keep must be >= 1, got %d", carperr.ErrInvalidInput, c.Keep)
	}
	if c.Variant == Viz {
		if c.VizTCoarse <= 1 {
			return fmt.Errorf("%w: VizTCoarse must be > 1, got %g", carperr.ErrInvalidInput, c.VizTCoarse)
		}
		if c.VizTSwitch <= 1 {
			return fmt.Errorf("%w: VizTSwitch must be > 1, got %g", carperr.ErrInvalidInput, c.VizTSwitch)
		}
		if c.VizBisectBudget < 1 {
			c.VizBisectBudget = 50
		}
	}
	if c.CheckCancelEvery < 1 {
		c.CheckCancelEvery = 50
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}
