// Package simulate generates DEMS cycles with a known charge balance: a
// triangular potential sweep, a constant double-layer current and a boxcar
// oxidation peak that the mass spectrometer records with a transit delay.
//
// The generated tables carry the same channels as measured files, so they
// run through the whole evaluation pipeline:
//
//	t, err := simulate.Cycle(simulate.CycleParams{VertexPotential: 0.9, KPrefactor: 1.1})
//
// Aligning at Delay ≤ 0 with the true K turns the simulated current back
// into the oxidation peak. The join drops the first −Delay/Step samples, so
// with default limits the charges are
//
//	Q_tot_M    = PeakAmplitude × PeakWidth × Step
//	Q_tot_j    = Q_tot_M + DoubleLayer × (ScanSamples + Delay/Step) × Step
//	Q cathodic = DoubleLayer × (ScanSamples − 1) × Step
package simulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/timeseries"
)

// ErrParams is returned for parameters that cannot describe a cycle.
var ErrParams = errors.New("invalid simulation parameters")

// CycleParams describes one simulated cycle. Zero fields take the defaults
// of DefaultCycleParams.
type CycleParams struct {
	ScanSamples     int     // samples per half scan; the vertex is sample ScanSamples
	Step            float64 // s between samples
	TimeOffset      float64 // s, time of the first sample
	StartPotential  float64 // V
	VertexPotential float64 // V
	DoubleLayer     float64 // µA/cm², +on the positive scan, −on the negative scan
	PeakAmplitude   float64 // µA/cm² of faradaic current
	PeakStart       int     // first sample of the oxidation peak
	PeakWidth       int     // samples
	KPrefactor      float64
	KPower          float64
	// Delay is the time shift that realigns the ion current, in the sign
	// convention of timeshift.Params.Interval. Zero means no transit delay.
	Delay float64
	// IonOffset is the instrument background added to the ion current (A).
	IonOffset float64
	Mass      int
	Diameter  float64 // cm
}

// DefaultCycleParams returns the default cycle.
func DefaultCycleParams() CycleParams {
	return CycleParams{
		ScanSamples:     100,
		Step:            0.1,
		StartPotential:  0.05,
		VertexPotential: 1.0,
		DoubleLayer:     10,
		PeakAmplitude:   100,
		PeakStart:       60,
		PeakWidth:       20,
		KPrefactor:      1,
		KPower:          1e-6,
		Delay:           -0.4,
		IonOffset:       2e-12,
		Mass:            timeseries.DefaultMass,
		Diameter:        experiment.DefaultElectrodeDiameter,
	}
}

func (p CycleParams) withDefaults() CycleParams {
	d := DefaultCycleParams()
	if p.ScanSamples == 0 {
		p.ScanSamples = d.ScanSamples
	}
	if p.Step == 0 {
		p.Step = d.Step
	}
	if p.StartPotential == 0 {
		p.StartPotential = d.StartPotential
	}
	if p.VertexPotential == 0 {
		p.VertexPotential = d.VertexPotential
	}
	if p.DoubleLayer == 0 {
		p.DoubleLayer = d.DoubleLayer
	}
	if p.PeakAmplitude == 0 {
		p.PeakAmplitude = d.PeakAmplitude
	}
	if p.PeakStart == 0 {
		p.PeakStart = d.PeakStart
	}
	if p.PeakWidth == 0 {
		p.PeakWidth = d.PeakWidth
	}
	if p.KPrefactor == 0 {
		p.KPrefactor = d.KPrefactor
	}
	if p.KPower == 0 {
		p.KPower = d.KPower
	}
	if p.IonOffset == 0 {
		p.IonOffset = d.IonOffset
	}
	if p.Mass == 0 {
		p.Mass = d.Mass
	}
	if p.Diameter == 0 {
		p.Diameter = d.Diameter
	}
	return p
}

// Cycle returns the table of one simulated cycle with 2×ScanSamples+1 rows.
func Cycle(p CycleParams) (*timeseries.Table, error) {
	p = p.withDefaults()
	if p.ScanSamples < 2 || p.Step <= 0 || p.VertexPotential <= p.StartPotential {
		return nil, fmt.Errorf("%w: %d samples, step %g, potentials %g..%g",
			ErrParams, p.ScanSamples, p.Step, p.StartPotential, p.VertexPotential)
	}
	if p.PeakStart < 0 || p.PeakStart+p.PeakWidth > p.ScanSamples {
		return nil, fmt.Errorf("%w: peak [%d, %d) outside the positive scan",
			ErrParams, p.PeakStart, p.PeakStart+p.PeakWidth)
	}

	v := p.ScanSamples
	n := 2*v + 1
	shift := int(math.Round(-p.Delay / p.Step))
	k := p.KPrefactor * p.KPower
	area := timeseries.ElectrodeArea(p.Diameter)

	faradaic := func(i int) float64 {
		if i >= p.PeakStart && i < p.PeakStart+p.PeakWidth {
			return p.PeakAmplitude
		}
		return 0
	}

	time := make([]float64, n)
	potential := make([]float64, n)
	current := make([]float64, n)
	density := make([]float64, n)
	ionRaw := make([]float64, n)
	ionSub := make([]float64, n)
	span := p.VertexPotential - p.StartPotential
	for i := range time {
		time[i] = p.TimeOffset + float64(i)*p.Step
		switch {
		case i < v:
			potential[i] = p.StartPotential + span*float64(i)/float64(v)
			density[i] = p.DoubleLayer + faradaic(i)
		case i == v:
			potential[i] = p.VertexPotential
			density[i] = p.DoubleLayer + faradaic(i)
		default:
			potential[i] = p.StartPotential + span*float64(n-1-i)/float64(v)
			density[i] = -p.DoubleLayer
		}
		current[i] = density[i] * area
		ion := k * faradaic(i+shift) / 1e6
		ionSub[i] = ion + p.IonOffset
		ionRaw[i] = ion + 2*p.IonOffset
	}

	return timeseries.FromColumns(time,
		[]string{
			timeseries.Potential,
			timeseries.Current,
			timeseries.CurrentDensity,
			timeseries.IonChannel(p.Mass, timeseries.StageRaw),
			timeseries.IonChannel(p.Mass, timeseries.StageInstrument),
		},
		[][]float64{potential, current, density, ionRaw, ionSub},
	)
}

// Experiment builds a loaded description with one simulated cycle per entry
// of cycles, keyed by cycle number in the given order.
func Experiment(name string, numbers []int, cycles []CycleParams) (experiment.Description, error) {
	if len(numbers) != len(cycles) {
		return experiment.Description{}, fmt.Errorf("%w: %d cycle numbers for %d cycles",
			ErrParams, len(numbers), len(cycles))
	}
	d := experiment.Description{
		Date:       "simulated",
		DataFolder: ".",
		Name:       name,
		Cycles:     make([]experiment.Cycle, len(cycles)),
	}
	for i, p := range cycles {
		p = p.withDefaults()
		t, err := Cycle(p)
		if err != nil {
			return experiment.Description{}, fmt.Errorf("cycle %d: %w", numbers[i], err)
		}
		d.Cycles[i] = experiment.Cycle{
			Number:     numbers[i],
			KPrefactor: p.KPrefactor,
			KPower:     p.KPower,
			Filename:   fmt.Sprintf("%s%d.csv", name, numbers[i]),
			Table:      t,
		}
		if i == 0 {
			delay := p.Delay
			d.Interval = &delay
		}
	}
	return d, d.Validate()
}
