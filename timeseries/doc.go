// Package timeseries provides the time-indexed table shared by all stages of
// the DEMS evaluation pipeline, together with CSV loading and file discovery.
//
// # Tables
//
// A Table holds a float time index (seconds) and any number of named float
// channels of the same length:
//
//	t := timeseries.NewTable([]float64{0, 0.1, 0.2})
//	t, err := t.WithColumn(timeseries.Potential, []float64{0.05, 0.06, 0.07})
//
// Tables are values: WithColumn, Select, Slice, Filter, ShiftTime and Join
// all return new tables and Column returns a copy of the stored channel.
//
// # Aligning two instruments
//
// Join performs an inner join on the time index. Times are compared after
// quantisation to TimeResolution so that a shifted axis (time - offset)
// still matches samples of the other instrument:
//
//	ms := t.ShiftTime(-0.4)
//	both := ec.Join(ms)
//
// # Channel names
//
// Input files carry time, potential, current1_muA and the ion current of a
// mass in the raw and instrument-subtracted forms. IonChannel and
// RawIonChannel build the names of the derived processing stages:
//
//	timeseries.IonChannel(44, timeseries.StageFiltered) // ion_current_M44_UVS_ALS_sub_norm_filt
//
// # Loading from CSV
//
// LoadCSV reads every numeric column of a file; LoadFiles locates files by
// substring under a data folder (recursively) and concatenates them:
//
//	t, err := timeseries.LoadFiles("data", []string{"cycle_107.csv"}, nil)
//	t, err = timeseries.WithCurrentDensity(t, 0.7)
package timeseries
