package main

import (
	"context"

	"github.com/regpath/carp/carp"
	"github.com/regpath/carp/cbass"
	"github.com/regpath/carp/fusiongraph"
	"github.com/regpath/carp/isp"
	"github.com/regpath/carp/precompute"
	"github.com/regpath/carp/prox"
	"github.com/spf13/cobra"
)

func newCBASSCmd() *cobra.Command {
	var (
		dataPath, edgesRowPath, edgesColPath string
		gamma0, t, rho                       float64
		maxIter, burnIn, keep                int
		l1                                   bool
		vizMode                              bool
		vizTCoarse, vizTSwitch               float64
	)

	cmd := &cobra.Command{
		Use:   "cbass",
		Short: "Run the CBASS/CBASS-VIZ biclustering path",
		RunE: func(cmd *cobra.Command, args []string) error {
			x, n, p, err := loadMatrix(dataPath)
			if err != nil {
				return err
			}
			edgesRow, err := loadEdges(edgesRowPath)
			if err != nil {
				return err
			}
			edgesCol, err := loadEdges(edgesColPath)
			if err != nil {
				return err
			}

			penalty := prox.L2
			if l1 {
				penalty = prox.L1
			}

			cfg := cbass.Config{
				Gamma0: gamma0, T: t, Rho: rho,
				MaxIter: maxIter, BurnIn: burnIn, Keep: keep,
				Penalty: penalty,
			}

			uInit := append([]float64(nil), x...)
			gRow, err := fusiongraph.New(fusiongraph.AxisCol, n, p, edgesRow)
			if err != nil {
				return err
			}
			gCol, err := fusiongraph.New(fusiongraph.AxisRow, n, p, edgesCol)
			if err != nil {
				return err
			}
			vRowInit := precompute.D(gRow, uInit)
			vColInit := precompute.D(gCol, uInit)

			var result cbass.Result
			if vizMode {
				cfg.Variant = carp.Viz
				cfg.VizTCoarse, cfg.VizTSwitch = vizTCoarse, vizTSwitch
				result, err = cbass.RunCBASSViz(context.Background(), x, n, p, edgesRow, edgesCol, uInit, vRowInit, vColInit, cfg)
			} else {
				cfg.Variant = carp.Plain
				result, err = cbass.RunCBASS(context.Background(), x, n, p, edgesRow, edgesCol, uInit, vRowInit, vColInit, cfg)
			}
			if err != nil {
				return err
			}

			smoothedRow, err := isp.Smooth(isp.Path{
				U: result.UPath, V: result.VPathRow, Zeta: result.ZetaPathRow,
				Gamma: result.GammaPath, NumEdges: len(edgesRow),
			})
			if err != nil {
				return err
			}
			smoothedCol, err := isp.Smooth(isp.Path{
				U: result.UPath, V: result.VPathCol, Zeta: result.ZetaPathCol,
				Gamma: result.GammaPath, NumEdges: len(edgesCol),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printFusionEvents(out, smoothedRow, result.Status)
			printFusionEvents(out, smoothedCol, result.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "path to n-by-p CSV data matrix (required)")
	cmd.Flags().StringVar(&edgesRowPath, "edges-row", "", "path to variable-pair (l,m,w) edge-list CSV (required)")
	cmd.Flags().StringVar(&edgesColPath, "edges-col", "", "path to observation-pair (l,m,w) edge-list CSV (required)")
	cmd.Flags().Float64Var(&gamma0, "gamma0", 0.001, "initial regularization level")
	cmd.Flags().Float64Var(&t, "t", 1.05, "geometric schedule multiplier")
	cmd.Flags().Float64Var(&rho, "rho", 1.0, "ADMM augmented-Lagrangian parameter")
	cmd.Flags().IntVar(&maxIter, "max-iter", 5000, "maximum outer iterations")
	cmd.Flags().IntVar(&burnIn, "burn-in", 50, "burn-in iterations before gamma grows")
	cmd.Flags().IntVar(&keep, "keep", 10, "record every Nth non-eventful iteration")
	cmd.Flags().BoolVar(&l1, "l1", false, "use the L1 (elementwise) penalty instead of L2 (group)")
	cmd.Flags().BoolVar(&vizMode, "viz", false, "use the CBASS-VIZ back-tracking variant")
	cmd.Flags().Float64Var(&vizTCoarse, "viz-t-coarse", 10, "VIZ coarse gamma-expansion factor")
	cmd.Flags().Float64Var(&vizTSwitch, "viz-t-switch", 1.01, "VIZ bisection shrink factor")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("edges-row")
	cmd.MarkFlagRequired("edges-col")

	return cmd
}
