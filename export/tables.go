// Package export writes evaluation results as CSV, XLSX and PNG files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sartorproj/godems/batch"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/sweep"
)

// Long table columns preceding the summary keys.
var longPrefix = []string{"experiment", "cycle", "interval", "K_modifier", "fixed_K", "vertex bucket"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// LongHeader returns the column names of the long table.
func LongHeader() []string {
	return append(append([]string(nil), longPrefix...), integrate.SummaryKeys()...)
}

// LongRecords returns the long table as rows of values. Text columns are
// strings; absent values are nil.
func LongRecords(rows []sweep.LongRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		rec := []interface{}{r.Experiment, r.Cycle, r.Interval, r.KModifier, nil, nil}
		if r.FixedK != nil {
			rec[4] = *r.FixedK
		}
		if r.Bucketed {
			rec[5] = r.Bucket
		}
		for _, v := range r.Summary.Values() {
			rec = append(rec, v)
		}
		out[i] = rec
	}
	return out
}

// ShortHeader returns the column names of the short table: the bucket, the
// number of rows and the mean and standard deviation of every charge.
func ShortHeader() []string {
	h := []string{integrate.KeyVertexPotential, "count"}
	for _, k := range integrate.SummaryKeys() {
		if k == integrate.KeyVertexPotential {
			continue
		}
		h = append(h, k, k+" std")
	}
	return h
}

// ShortRecords returns the short table as rows of values.
func ShortRecords(rows []sweep.ShortRow) [][]interface{} {
	keys := integrate.SummaryKeys()
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		rec := []interface{}{r.VertexPotential, r.Count}
		mean, std := r.Mean.Values(), r.Std.Values()
		for k, key := range keys {
			if key == integrate.KeyVertexPotential {
				continue
			}
			rec = append(rec, mean[k], std[k])
		}
		out[i] = rec
	}
	return out
}

// OverviewRecords returns the per-cycle rows of an Overview.
func OverviewRecords(ov *batch.Overview) [][]interface{} {
	rows := ov.Rows()
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		rec := make([]interface{}, len(row))
		for j, v := range row {
			rec[j] = v
		}
		rec[0] = int(row[0])
		out[i] = rec
	}
	return out
}

// WriteCSV writes a header and records. Floats use the shortest exact
// representation and nil values are written as empty fields.
func WriteCSV(w io.Writer, header []string, records [][]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, rec := range records {
		line = line[:0]
		for _, v := range rec {
			line = append(line, formatValue(v))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return ""
}
