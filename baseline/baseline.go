// Package baseline removes the pre-reaction level from ion current channels
// and smooths them with a median filter.
package baseline

import (
	"errors"
	"fmt"

	"github.com/sartorproj/godems/stats"
	"github.com/sartorproj/godems/timeseries"
)

// ErrWindow is returned when the baseline window does not lie within the table.
var ErrWindow = errors.New("baseline window out of range")

// Options configures baseline correction.
type Options struct {
	Mass        int // Atomic mass of the tracked ion (default: 44)
	Start       int // First row of the pre-reaction window
	Stop        int // Row after the last row of the window (default: 50)
	FilterWidth int // Median filter width, odd (default: 9)
}

// DefaultOptions returns the default correction options.
func DefaultOptions() Options {
	return Options{
		Mass:        timeseries.DefaultMass,
		Start:       0,
		Stop:        50,
		FilterWidth: stats.DefaultFilterWidth,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Mass == 0 {
		o.Mass = d.Mass
	}
	if o.Stop == 0 && o.Start == 0 {
		o.Stop = d.Stop
	}
	if o.FilterWidth == 0 {
		o.FilterWidth = d.FilterWidth
	}
	return o
}

// Correct returns a copy of t with the normalized and filtered ion current
// channels added:
//
//   - IonChannel(mass, StageNormalized): instrument output minus its window mean
//   - IonChannel(mass, StageFiltered): median filter of the above
//   - FilteredInstrumentChannel(mass): median filter of the instrument output
//   - RawIonChannel(mass, StageNormalized|StageFiltered): same for the raw
//     current, when the table carries it
func Correct(t *timeseries.Table, opts Options) (*timeseries.Table, error) {
	opts = opts.withDefaults()
	if opts.Start < 0 || opts.Start >= opts.Stop || opts.Stop > t.Len() {
		return nil, fmt.Errorf("[%d, %d) for %d rows: %w", opts.Start, opts.Stop, t.Len(), ErrWindow)
	}

	sub, err := t.Column(timeseries.IonChannel(opts.Mass, timeseries.StageInstrument))
	if err != nil {
		return nil, err
	}

	out := t
	subNorm := subtractWindowMean(sub, opts.Start, opts.Stop)
	if out, err = withFiltered(out, opts.FilterWidth,
		timeseries.IonChannel(opts.Mass, timeseries.StageNormalized),
		timeseries.IonChannel(opts.Mass, timeseries.StageFiltered),
		subNorm); err != nil {
		return nil, err
	}

	subFilt, err := stats.MedianFilter(sub, opts.FilterWidth)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(timeseries.FilteredInstrumentChannel(opts.Mass), subFilt); err != nil {
		return nil, err
	}

	rawName := timeseries.RawIonChannel(opts.Mass, timeseries.StageRaw)
	if !t.Has(rawName) {
		return out, nil
	}
	raw, err := t.Column(rawName)
	if err != nil {
		return nil, err
	}
	return withFiltered(out, opts.FilterWidth,
		timeseries.RawIonChannel(opts.Mass, timeseries.StageNormalized),
		timeseries.RawIonChannel(opts.Mass, timeseries.StageFiltered),
		subtractWindowMean(raw, opts.Start, opts.Stop))
}

func withFiltered(t *timeseries.Table, width int, normName, filtName string, norm []float64) (*timeseries.Table, error) {
	filt, err := stats.MedianFilter(norm, width)
	if err != nil {
		return nil, err
	}
	t, err = t.WithColumn(normName, norm)
	if err != nil {
		return nil, err
	}
	return t.WithColumn(filtName, filt)
}

func subtractWindowMean(data []float64, start, stop int) []float64 {
	level := stats.WindowMean(data, start, stop)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - level
	}
	return out
}
