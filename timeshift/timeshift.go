// Package timeshift aligns the mass spectrometer signal with the
// electrochemical signal and converts it into an equivalent current density.
package timeshift

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/godems/timeseries"
)

var (
	// ErrInvalidK is returned when the calibration factor is not strictly positive.
	ErrInvalidK = errors.New("calibration factor K must be positive")
	// ErrNoOverlap is returned when the shifted time axes share no sample.
	ErrNoOverlap = errors.New("no time overlap after shift")
)

// microScale converts ion current / K (A/cm²) into µA/cm².
const microScale = 1e6

// Params configures an alignment.
type Params struct {
	KPrefactor float64
	KPower     float64
	// Interval is subtracted from the ion current time axis. It compensates
	// the transit delay between the electrode and the spectrometer.
	Interval float64
	// Mass selects the ion channel when IonChannel is empty (default: 44).
	Mass int
	// IonChannel overrides the ion current channel to calibrate.
	IonChannel string
}

// K returns the calibration factor KPrefactor × KPower.
func (p Params) K() float64 {
	return p.KPrefactor * p.KPower
}

func (p Params) ionChannel() string {
	if p.IonChannel != "" {
		return p.IonChannel
	}
	mass := p.Mass
	if mass == 0 {
		mass = timeseries.DefaultMass
	}
	return timeseries.IonChannel(mass, timeseries.StageFiltered)
}

// Aligned is the merged, calibrated table of one cycle.
type Aligned struct {
	Table    *timeseries.Table
	K        float64
	Interval float64
	// IonChannel is the name of the calibrated channel in Table.
	IonChannel string
}

// Align shifts the ion current channel of t by the interval, joins it with
// the electrochemical channels on the common time axis and adds the
// simulated current (ion / K × 1e6) and the residual current
// (current density − simulated current).
func Align(t *timeseries.Table, p Params) (*Aligned, error) {
	k := p.K()
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("K = %g × %g = %g: %w", p.KPrefactor, p.KPower, k, ErrInvalidK)
	}
	ion := p.ionChannel()

	ec, err := t.Select(timeseries.Potential, timeseries.CurrentDensity)
	if err != nil {
		return nil, err
	}
	ms, err := t.Select(ion)
	if err != nil {
		return nil, err
	}

	joined := ec.Join(ms.ShiftTime(p.Interval))
	if joined.Len() == 0 {
		return nil, fmt.Errorf("interval %g: %w", p.Interval, ErrNoOverlap)
	}

	sim := joined.MustColumn(ion)
	for i := range sim {
		sim[i] = sim[i] / k * microScale
	}
	residual := joined.MustColumn(timeseries.CurrentDensity)
	for i := range residual {
		residual[i] -= sim[i]
	}

	if joined, err = joined.WithColumn(timeseries.SimCurrent, sim); err != nil {
		return nil, err
	}
	if joined, err = joined.WithColumn(timeseries.ResidualCurrent, residual); err != nil {
		return nil, err
	}
	return &Aligned{Table: joined, K: k, Interval: p.Interval, IonChannel: ion}, nil
}
