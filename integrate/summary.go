package integrate

import (
	"fmt"
	"math"
)

// Summary keys, in reporting order.
const (
	KeyTotalJ               = "Q_tot_j"
	KeyTotalM               = "Q_tot_M"
	KeyTotalJMinusM         = "Q_tot_j - Q_tot_M"
	KeyTotalJPos            = "Q_tot_j_pos"
	KeyTotalMPos            = "Q_tot_M_pos"
	KeyDiffPos              = "Q_diff_pos"
	KeyTotalJNeg            = "Q_tot_j_neg"
	KeyTotalMNeg            = "Q_tot_M_neg"
	KeyDiffNeg              = "Q_diff_neg"
	KeyDiffNegMinusCathodic = "Q_diff_neg - Q cathodic"
	KeyCathodic             = "Q cathodic"
	KeyDiffSum              = "Q_diff_pos + Q_diff_neg"
	KeyVertexPotential      = "vertex potential"
	KeySimPos               = "Q_tot_j_sim_pos"
	KeySimNeg               = "Q_tot_j_sim_neg"
	KeySimNegPlusCathodic   = "Q_tot_j_sim_neg + cathodic"
)

var summaryKeys = []string{
	KeyTotalJ,
	KeyTotalM,
	KeyTotalJMinusM,
	KeyTotalJPos,
	KeyTotalMPos,
	KeyDiffPos,
	KeyTotalJNeg,
	KeyTotalMNeg,
	KeyDiffNeg,
	KeyDiffNegMinusCathodic,
	KeyCathodic,
	KeyDiffSum,
	KeyVertexPotential,
	KeySimPos,
	KeySimNeg,
	KeySimNegPlusCathodic,
}

// Summary holds the charges of one cycle in µC/cm² and its vertex potential in V.
type Summary struct {
	TotalJ               float64
	TotalM               float64
	TotalJMinusM         float64
	TotalJPos            float64
	TotalMPos            float64
	DiffPos              float64 // TotalJPos - TotalMPos
	TotalJNeg            float64
	TotalMNeg            float64
	DiffNeg              float64 // TotalJNeg - TotalMNeg
	DiffNegMinusCathodic float64
	Cathodic             float64
	DiffSum              float64 // DiffPos + DiffNeg
	VertexPotential      float64
	SimPos               float64
	SimNeg               float64
	SimNegPlusCathodic   float64
}

// SummaryKeys returns the summary keys in reporting order.
func SummaryKeys() []string {
	return append([]string(nil), summaryKeys...)
}

func (s *Summary) fields() []*float64 {
	return []*float64{
		&s.TotalJ,
		&s.TotalM,
		&s.TotalJMinusM,
		&s.TotalJPos,
		&s.TotalMPos,
		&s.DiffPos,
		&s.TotalJNeg,
		&s.TotalMNeg,
		&s.DiffNeg,
		&s.DiffNegMinusCathodic,
		&s.Cathodic,
		&s.DiffSum,
		&s.VertexPotential,
		&s.SimPos,
		&s.SimNeg,
		&s.SimNegPlusCathodic,
	}
}

// Values returns the summary values in SummaryKeys order.
func (s Summary) Values() []float64 {
	f := s.fields()
	out := make([]float64, len(f))
	for i, p := range f {
		out[i] = *p
	}
	return out
}

// Map returns the summary keyed by SummaryKeys.
func (s Summary) Map() map[string]float64 {
	vals := s.Values()
	out := make(map[string]float64, len(vals))
	for i, k := range summaryKeys {
		out[k] = vals[i]
	}
	return out
}

// Get returns the value of a summary key.
func (s Summary) Get(key string) (float64, bool) {
	for i, k := range summaryKeys {
		if k == key {
			return *s.fields()[i], true
		}
	}
	return 0, false
}

// Round returns a copy with every value rounded to the given number of decimals.
func (s Summary) Round(decimals int) Summary {
	scale := math.Pow(10, float64(decimals))
	out := s
	for _, p := range out.fields() {
		*p = math.Round(*p*scale) / scale
	}
	return out
}

// SummaryFromValues builds a summary from values in SummaryKeys order.
func SummaryFromValues(values []float64) (Summary, error) {
	var s Summary
	f := s.fields()
	if len(values) != len(f) {
		return s, fmt.Errorf("summary needs %d values, got %d", len(f), len(values))
	}
	for i, p := range f {
		*p = values[i]
	}
	return s, nil
}
