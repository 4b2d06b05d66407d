package integrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sartorproj/godems/timeseries"
)

var (
	// ErrUnknownRegion is returned for a region name outside the integration program.
	ErrUnknownRegion = errors.New("unknown integration region")
	// ErrInvalidSign is returned for a current sign other than positive, negative or none.
	ErrInvalidSign = errors.New("invalid current sign")
)

// Region identifies one of the nine integrated charges.
type Region int

const (
	TotalJ    Region = iota // Q_tot_j: measured current, full cycle
	TotalJPos               // Q_tot_j_pos: measured current, positive-going scan
	TotalJNeg               // Q_tot_j_neg: measured current, negative-going scan
	Cathodic                // Q cathodic: negative measured current, integrated as |j|, negative-going scan
	TotalM                  // Q_tot_M: simulated current, full cycle
	TotalMPos               // Q_tot_M_pos: simulated current, positive-going scan
	TotalMNeg               // Q_tot_M_neg: simulated current, negative-going scan
	SimPos                  // Q_tot_j_sim_pos: residual current, positive-going scan
	SimNeg                  // Q_tot_j_sim_neg: negative residual current, negative-going scan

	numRegions = int(SimNeg) + 1
)

var regionNames = [numRegions]string{
	"Q_tot_j",
	"Q_tot_j_pos",
	"Q_tot_j_neg",
	"Q cathodic",
	"Q_tot_M",
	"Q_tot_M_pos",
	"Q_tot_M_neg",
	"Q_tot_j_sim_pos",
	"Q_tot_j_sim_neg",
}

func (r Region) String() string {
	if r < 0 || int(r) >= numRegions {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// Regions returns all regions in evaluation order.
func Regions() []Region {
	out := make([]Region, numRegions)
	for i := range out {
		out[i] = Region(i)
	}
	return out
}

// ParseRegion maps a region name to its identifier.
func ParseRegion(name string) (Region, error) {
	for i, n := range regionNames {
		if n == name {
			return Region(i), nil
		}
	}
	return 0, fmt.Errorf("key %q is not part of the integration program: %w", name, ErrUnknownRegion)
}

// Scan selects the part of a cycle a region integrates over.
type Scan int

const (
	ScanFull     Scan = iota
	ScanPositive      // rows from the start up to and including the vertex
	ScanNegative      // rows from the vertex to the end
)

// Sign filters rows by the sign of the integrated current.
type Sign int

const (
	SignNone Sign = iota
	SignPositive
	SignNegative
)

func (s Sign) String() string {
	switch s {
	case SignPositive:
		return "positive"
	case SignNegative:
		return "negative"
	default:
		return "none"
	}
}

// ParseSign parses "positive", "negative" or "none".
func ParseSign(s string) (Sign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SignPositive, nil
	case "negative":
		return SignNegative, nil
	case "none", "":
		return SignNone, nil
	}
	return SignNone, fmt.Errorf("%q: %w", s, ErrInvalidSign)
}

func (s Sign) keep(v float64) bool {
	switch s {
	case SignPositive:
		return v > 0
	case SignNegative:
		return v < 0
	default:
		return true
	}
}

// definition is the fixed integration program of a region.
type definition struct {
	channel  string
	scan     Scan
	sign     Sign
	lower    bool // lower potential bound applies
	upper    bool // upper potential bound applies
	absolute bool // integrate |current|
	zeroFill bool // empty selection yields charge 0
}

var definitions = [numRegions]definition{
	TotalJ:    {channel: timeseries.CurrentDensity, scan: ScanFull, sign: SignPositive, lower: true},
	TotalJPos: {channel: timeseries.CurrentDensity, scan: ScanPositive, sign: SignPositive, lower: true},
	TotalJNeg: {channel: timeseries.CurrentDensity, scan: ScanNegative, sign: SignPositive},
	Cathodic:  {channel: timeseries.CurrentDensity, scan: ScanNegative, sign: SignNegative, lower: true, absolute: true, zeroFill: true},
	TotalM:    {channel: timeseries.SimCurrent, scan: ScanFull, lower: true},
	TotalMPos: {channel: timeseries.SimCurrent, scan: ScanPositive, lower: true},
	TotalMNeg: {channel: timeseries.SimCurrent, scan: ScanNegative, lower: true},
	SimPos:    {channel: timeseries.ResidualCurrent, scan: ScanPositive, lower: true, upper: true},
	SimNeg:    {channel: timeseries.ResidualCurrent, scan: ScanNegative, sign: SignNegative, lower: true, upper: true},
}

// Channel returns the name of the channel integrated for the region.
func (r Region) Channel() string {
	return definitions[r].channel
}

// Scan returns the scan direction the region is restricted to.
func (r Region) Scan() Scan {
	return definitions[r].scan
}
