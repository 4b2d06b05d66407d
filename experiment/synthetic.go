package experiment

import (
	"fmt"
	"math"

	"github.com/sartorproj/godems/stats"
)

// DefaultKIncrement is the step between candidate K prefactors.
const DefaultKIncrement = 0.05

// Synthetic generates descriptions whose K prefactor drifts linearly from
// the lowest to the highest cycle number. Every ordered pair of candidate
// prefactors (start, end) yields one description.
type Synthetic struct {
	KMin       float64
	KMax       float64
	KIncrement float64 // default: 0.05
}

// Line is the prefactor drift of one generated description.
type Line struct {
	Start, End float64
	Fit        stats.Line
	// KPrefactors holds the prefactor of each cycle in description order.
	KPrefactors []float64
}

func (s Synthetic) increment() float64 {
	if s.KIncrement == 0 {
		return DefaultKIncrement
	}
	return s.KIncrement
}

// KValues returns the candidate prefactors in [KMin, KMax) rounded to two
// decimals.
func (s Synthetic) KValues() ([]float64, error) {
	inc := s.increment()
	if !(inc > 0) {
		return nil, fmt.Errorf("%w: K increment %g must be positive", ErrInvalid, inc)
	}
	n := int(math.Ceil((s.KMax - s.KMin) / inc))
	if n <= 0 {
		return nil, fmt.Errorf("%w: empty K range [%g, %g)", ErrInvalid, s.KMin, s.KMax)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round((s.KMin+float64(i)*inc)*100) / 100
	}
	return out, nil
}

// Pairs returns every (start, end) combination of KValues, start-major.
func (s Synthetic) Pairs() ([][2]float64, error) {
	values, err := s.KValues()
	if err != nil {
		return nil, err
	}
	out := make([][2]float64, 0, len(values)*len(values))
	for _, k1 := range values {
		for _, k2 := range values {
			out = append(out, [2]float64{k1, k2})
		}
	}
	return out, nil
}

// Lines fits, for every pair, a line through (lowest cycle, start) and
// (highest cycle, end) and evaluates it at each cycle of d.
func (s Synthetic) Lines(d Description) ([]Line, error) {
	numbers := d.CycleNumbers()
	if len(numbers) < 2 {
		return nil, fmt.Errorf("%w: %s: K drift needs at least two cycles", ErrInvalid, d.Name)
	}
	lo, hi := numbers[0], numbers[0]
	for _, n := range numbers[1:] {
		lo = min(lo, n)
		hi = max(hi, n)
	}

	pairs, err := s.Pairs()
	if err != nil {
		return nil, err
	}
	out := make([]Line, 0, len(pairs))
	for _, p := range pairs {
		fit, err := stats.FitLine([]float64{float64(lo), float64(hi)}, []float64{p[0], p[1]})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		k := make([]float64, len(numbers))
		for i, n := range numbers {
			k[i] = fit.At(float64(n))
		}
		out = append(out, Line{Start: p[0], End: p[1], Fit: fit, KPrefactors: k})
	}
	return out, nil
}

// Generate returns one description per line; only the prefactors differ
// from d.
func (s Synthetic) Generate(d Description) ([]Description, error) {
	lines, err := s.Lines(d)
	if err != nil {
		return nil, err
	}
	out := make([]Description, len(lines))
	for i, line := range lines {
		k := make(map[int]float64, len(d.Cycles))
		for j, c := range d.Cycles {
			k[c.Number] = line.KPrefactors[j]
		}
		out[i] = d.WithKPrefactors(k)
	}
	return out, nil
}
