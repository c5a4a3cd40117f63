// Command carppath runs a CARP or CBASS regularization path over a CSV
// data matrix and prints the resulting fusion events to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "carppath",
		Short: "Run a convex clustering/biclustering regularization path",
		Long: "carppath runs CARP (clustering), CARP-VIZ (back-tracking clustering), " +
			"or CBASS (biclustering) over a CSV data matrix and prints the fusion events " +
			"discovered along the path.",
	}
	root.AddCommand(newCarpCmd(), newCBASSCmd())
	return root
}
