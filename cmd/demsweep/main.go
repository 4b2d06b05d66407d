// Command demsweep evaluates DEMS cyclic voltammetry experiments: it
// integrates the charges of every cycle, sweeps the alignment interval and
// K prefactor and writes the aggregated tables and plots.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
