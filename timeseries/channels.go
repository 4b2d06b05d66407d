package timeseries

import (
	"fmt"
	"math"
)

// Channel names shared by the input files and the derived tables.
const (
	Time            = "time"
	Potential       = "potential"
	Current         = "current1_muA"
	CurrentDensity  = "current1_muA_geo"
	SimCurrent      = "sim_current"
	ResidualCurrent = "current_H_sub"
)

// DefaultMass is the atomic mass of the CO2 ion tracked by default.
const DefaultMass = 44

// Stage identifies how far an ion current channel has been processed.
type Stage int

const (
	// StageRaw is the ion current as recorded by the spectrometer.
	StageRaw Stage = iota
	// StageInstrument is the background-subtracted output of the instrument software.
	StageInstrument
	// StageNormalized has the pre-reaction baseline removed.
	StageNormalized
	// StageFiltered is the median-filtered normalized signal.
	StageFiltered
)

func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "raw"
	case StageInstrument:
		return "instrument"
	case StageNormalized:
		return "normalized"
	case StageFiltered:
		return "filtered"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// IonChannel returns the channel name of the instrument-subtracted ion current
// of the given mass at a processing stage.
func IonChannel(mass int, stage Stage) string {
	base := fmt.Sprintf("ion_current_M%d", mass)
	switch stage {
	case StageRaw:
		return base
	case StageInstrument:
		return base + "_UVS_ALS_sub"
	case StageNormalized:
		return base + "_UVS_ALS_sub_norm"
	default:
		return base + "_UVS_ALS_sub_norm_filt"
	}
}

// RawIonChannel returns the channel name of the raw ion current at a processing
// stage. Only the raw, normalized and filtered stages exist for it.
func RawIonChannel(mass int, stage Stage) string {
	base := fmt.Sprintf("ion_current_M%d", mass)
	switch stage {
	case StageNormalized:
		return base + "_norm"
	case StageFiltered:
		return base + "_norm_filt"
	default:
		return base
	}
}

// FilteredInstrumentChannel is the median-filtered instrument output without
// baseline removal.
func FilteredInstrumentChannel(mass int) string {
	return IonChannel(mass, StageInstrument) + "_filt"
}

// ElectrodeArea returns the geometric area in cm² of a disc electrode.
func ElectrodeArea(diameter float64) float64 {
	return math.Pi * (diameter / 2) * (diameter / 2)
}

// WithCurrentDensity adds the current density channel computed from the raw
// current and the electrode diameter in cm.
func WithCurrentDensity(t *Table, diameter float64) (*Table, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("electrode diameter must be positive, got %g", diameter)
	}
	cur, err := t.Column(Current)
	if err != nil {
		return nil, err
	}
	area := ElectrodeArea(diameter)
	for i := range cur {
		cur[i] /= area
	}
	return t.WithColumn(CurrentDensity, cur)
}
