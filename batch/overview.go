package batch

import (
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
)

// CycleCharge is the summary of one cycle merged with its description
// metadata. The measurement table is not retained.
type CycleCharge struct {
	Cycle      experiment.Cycle
	KPrefactor float64 // prefactor actually used
	K          float64
	Summary    integrate.Summary
}

// Overview holds the evaluated cycles of one experiment for one parameter set.
type Overview struct {
	params  Params
	cycles  []CycleCharge
	results []*integrate.Result
}

// Params returns the parameters the Overview was computed with.
func (o *Overview) Params() Params {
	return o.params
}

// Cycles returns the cycle numbers in description order.
func (o *Overview) Cycles() []int {
	out := make([]int, len(o.cycles))
	for i, c := range o.cycles {
		out[i] = c.Cycle.Number
	}
	return out
}

// Charge returns the integration result of a cycle.
func (o *Overview) Charge(cycle int) (*integrate.Result, bool) {
	for i, c := range o.cycles {
		if c.Cycle.Number == cycle {
			return o.results[i], true
		}
	}
	return nil, false
}

// Charges returns the integration results keyed by cycle number.
func (o *Overview) Charges() map[int]*integrate.Result {
	out := make(map[int]*integrate.Result, len(o.results))
	for i, c := range o.cycles {
		out[c.Cycle.Number] = o.results[i]
	}
	return out
}

// CycleDescriptions returns the per-cycle summaries in description order.
func (o *Overview) CycleDescriptions() []CycleCharge {
	return append([]CycleCharge(nil), o.cycles...)
}

// Round returns a copy whose cycle summaries are rounded to the given number
// of decimals. The integration results are shared with o.
func (o *Overview) Round(decimals int) *Overview {
	out := &Overview{params: o.params, results: o.results, cycles: o.CycleDescriptions()}
	for i := range out.cycles {
		out.cycles[i].Summary = out.cycles[i].Summary.Round(decimals)
	}
	return out
}

// Header returns the column names of Rows.
func Header() []string {
	return append([]string{"cycle", "K_prefactor", "K_power", "K"}, integrate.SummaryKeys()...)
}

// Rows returns one row per cycle in Header order.
func (o *Overview) Rows() [][]float64 {
	out := make([][]float64, len(o.cycles))
	for i, c := range o.cycles {
		row := []float64{float64(c.Cycle.Number), c.KPrefactor, c.Cycle.KPower, c.K}
		out[i] = append(row, c.Summary.Values()...)
	}
	return out
}
