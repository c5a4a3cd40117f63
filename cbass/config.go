package cbass

import (
	"fmt"
	"log/slog"

	"github.com/regpath/carp/carp"
	"github.com/regpath/carp/prox"
)

// Config mirrors carp.Config, extended with nothing: both axes of a
// CBASS run share one gamma schedule and one set of tuning knobs
// (spec.md §4.6 — "both directions share the same gamma schedule").
type Config struct {
	Gamma0  float64
	T       float64
	Rho     float64
	MaxIter int
	BurnIn  int
	Keep    int
	Penalty prox.Penalty
	Variant carp.Variant

	VizTCoarse      float64
	VizTSwitch      float64
	VizBisectBudget int

	Logger           *slog.Logger
	CheckCancelEvery int
}

// Validate delegates to carp.Config's rules, since CBASS imposes no
// additional constraints beyond applying them to both shared-schedule axes.
func (c *Config) Validate() error {
	inner := carp.Config{
		Gamma0: c.Gamma0, T: c.T, Rho: c.Rho,
		MaxIter: c.MaxIter, BurnIn: c.BurnIn, Keep: c.Keep,
		Penalty: c.Penalty, Variant: c.Variant,
		VizTCoarse: c.VizTCoarse, VizTSwitch: c.VizTSwitch, VizBisectBudget: c.VizBisectBudget,
		Logger: c.Logger, CheckCancelEvery: c.CheckCancelEvery,
	}
	if err := inner.Validate(); err != nil {
		return fmt.Errorf("%w", err)
	}
	c.VizBisectBudget = inner.VizBisectBudget
	c.CheckCancelEvery = inner.CheckCancelEvery
	c.Logger = inner.Logger
	return nil
}
