package integrate

import (
	"errors"
	"fmt"

	"github.com/sartorproj/godems/stats"
	"github.com/sartorproj/godems/timeseries"
	"github.com/sartorproj/godems/timeshift"
)

// ErrEmptyRegion is returned when no row satisfies the predicates of a region.
var ErrEmptyRegion = errors.New("no rows in integration region")

// ChargeColumn is the cumulative charge channel added to region tables.
const ChargeColumn = "Q_total"

// RegionCharge is the evaluated charge of one region.
type RegionCharge struct {
	Region Region
	// Table holds the selected rows and their cumulative charge in ChargeColumn.
	Table *timeseries.Table
	// Charge is the last value of the cumulative charge.
	Charge float64
	// Axis is the integrated channel.
	Axis string
}

// Result holds the charges of all regions of one cycle.
type Result struct {
	Table           *timeseries.Table
	K               float64
	VertexIndex     int
	VertexPotential float64
	charges         [numRegions]RegionCharge
}

// New integrates an aligned cycle.
func New(a *timeshift.Aligned, limits Limits) (*Result, error) {
	return Compute(a.Table, a.K, limits)
}

// Compute integrates every region of a table carrying potential, current
// density, simulated and residual current channels.
func Compute(t *timeseries.Table, k float64, limits Limits) (*Result, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("empty table: %w", ErrEmptyRegion)
	}
	vertex, err := t.MaxIdx(timeseries.Potential)
	if err != nil {
		return nil, err
	}
	minU, maxU, err := t.Extent(timeseries.Potential)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Table:           t,
		K:               k,
		VertexIndex:     vertex,
		VertexPotential: maxU,
	}
	scans := [...]*timeseries.Table{
		ScanFull:     t,
		ScanPositive: t.Slice(0, vertex+1),
		ScanNegative: t.Slice(vertex, t.Len()),
	}
	for _, r := range Regions() {
		def := definitions[r]
		rc, err := integrateRegion(r, scans[def.scan], limits.resolve(r, minU, maxU))
		if err != nil {
			return nil, err
		}
		res.charges[r] = rc
	}
	return res, nil
}

func integrateRegion(r Region, scan *timeseries.Table, b bounds) (RegionCharge, error) {
	def := definitions[r]
	potential, err := scan.Column(timeseries.Potential)
	if err != nil {
		return RegionCharge{}, err
	}
	current, err := scan.Column(def.channel)
	if err != nil {
		return RegionCharge{}, err
	}

	keep := make([]bool, scan.Len())
	n := 0
	for i := range keep {
		keep[i] = b.sign.keep(current[i])
		if def.lower {
			keep[i] = keep[i] && potential[i] > b.lower
		}
		if def.upper {
			keep[i] = keep[i] && potential[i] < b.upper
		}
		if keep[i] {
			n++
		}
	}

	if n == 0 {
		if !def.zeroFill {
			return RegionCharge{}, fmt.Errorf("%s: %w", r, ErrEmptyRegion)
		}
		head := scan.Slice(0, 2)
		return summarize(r, head, make([]float64, head.Len()))
	}

	sel, err := scan.Filter(keep)
	if err != nil {
		return RegionCharge{}, err
	}
	q := stats.AbsCumulativeTrapezoid(sel.Time(), sel.MustColumn(def.channel), def.absolute)
	return summarize(r, sel, q)
}

// summarize attaches the cumulative charge to the region table.
func summarize(r Region, sel *timeseries.Table, q []float64) (RegionCharge, error) {
	out, err := sel.WithColumn(ChargeColumn, q)
	if err != nil {
		return RegionCharge{}, err
	}
	rc := RegionCharge{Region: r, Table: out, Axis: definitions[r].channel}
	if len(q) > 0 {
		rc.Charge = q[len(q)-1]
	}
	return rc, nil
}

// Charge returns the evaluated charge of a region.
func (res *Result) Charge(r Region) RegionCharge {
	return res.charges[r]
}

// Charges returns the evaluated charges in region order.
func (res *Result) Charges() []RegionCharge {
	out := make([]RegionCharge, numRegions)
	copy(out, res.charges[:])
	return out
}

// PositiveScan returns the rows up to and including the vertex.
func (res *Result) PositiveScan() *timeseries.Table {
	return res.Table.Slice(0, res.VertexIndex+1)
}

// NegativeScan returns the rows from the vertex on, re-indexed from zero.
func (res *Result) NegativeScan() *timeseries.Table {
	return res.Table.Slice(res.VertexIndex, res.Table.Len())
}

// Summary combines the region charges into the per-cycle summary.
func (res *Result) Summary() Summary {
	q := func(r Region) float64 { return res.charges[r].Charge }
	diffPos := q(TotalJPos) - q(TotalMPos)
	diffNeg := q(TotalJNeg) - q(TotalMNeg)
	return Summary{
		TotalJ:               q(TotalJ),
		TotalM:               q(TotalM),
		TotalJMinusM:         q(TotalJ) - q(TotalM),
		TotalJPos:            q(TotalJPos),
		TotalMPos:            q(TotalMPos),
		DiffPos:              diffPos,
		TotalJNeg:            q(TotalJNeg),
		TotalMNeg:            q(TotalMNeg),
		DiffNeg:              diffNeg,
		DiffNegMinusCathodic: diffNeg - q(Cathodic),
		Cathodic:             q(Cathodic),
		DiffSum:              diffPos + diffNeg,
		VertexPotential:      res.VertexPotential,
		SimPos:               q(SimPos),
		SimNeg:               q(SimNeg),
		SimNegPlusCathodic:   q(SimNeg) + q(Cathodic),
	}
}
