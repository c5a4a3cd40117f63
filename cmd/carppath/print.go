package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/regpath/carp/carperr"
	"github.com/regpath/carp/isp"
)

// printFusionEvents renders a smoothed path's retained columns as a
// human-readable event table: one line per record, the iterate index,
// gamma, and the number of fused pairs at that point. This replaces the
// dropped matrix package's dense-printing role with a fixture tailored to
// a fusion path rather than a generic matrix.
func printFusionEvents(w io.Writer, p isp.Path, status carperr.Status) {
	fmt.Fprintf(w, "%-6s %-14s %-10s\n", "event", "gamma", "fused/|E|")
	fmt.Fprintln(w, strings.Repeat("-", 32))
	for col := 0; col < p.Zeta.Cols(); col++ {
		fused := 0
		for _, z := range p.Zeta.Col(col) {
			if z != 0 {
				fused++
			}
		}
		fmt.Fprintf(w, "%-6d %-14.6g %d/%d\n", col, p.Gamma[col], fused, p.NumEdges)
	}
	fmt.Fprintf(w, "\nstatus: %s\n", status.Kind)
	if len(status.Events) > 0 {
		fmt.Fprintf(w, "multi-merge events: %v\n", status.Events)
	}
}
