// Package timeseries provides the time-indexed table used by every stage of the pipeline.
package timeseries

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrColumnNotFound is returned when a named channel is not part of a table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when a channel does not match the length of the time index.
	ErrLengthMismatch = errors.New("length mismatch")
)

// TimeResolution is the quantum used to match time values across tables.
// Shifted time axes are the result of a floating point subtraction, so two
// samples are considered simultaneous when they round to the same quantum.
const TimeResolution = 1e-9

// Table is an ordered, time-indexed set of numeric channels.
//
// Tables are treated as immutable values: every operation returns a new
// table and Column returns a copy. Unchanged channels may share storage
// between a table and the tables derived from it.
type Table struct {
	time    []float64
	names   []string
	columns map[string][]float64
}

// NewTable creates a table with the given time index and no channels.
func NewTable(time []float64) *Table {
	t := make([]float64, len(time))
	copy(t, time)
	return &Table{
		time:    t,
		columns: make(map[string][]float64),
	}
}

// FromColumns creates a table from a time index and channels in the given order.
func FromColumns(time []float64, names []string, values [][]float64) (*Table, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%d names for %d columns: %w", len(names), len(values), ErrLengthMismatch)
	}
	t := NewTable(time)
	for i, name := range names {
		var err error
		t, err = t.WithColumn(name, values[i])
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.time)
}

// Time returns a copy of the time index.
func (t *Table) Time() []float64 {
	out := make([]float64, len(t.time))
	copy(out, t.time)
	return out
}

// Columns returns the channel names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the table has a channel with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns a copy of the named channel.
func (t *Table) Column(name string) ([]float64, error) {
	if name == Time {
		return t.Time(), nil
	}
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// MustColumn is like Column but panics if the channel does not exist.
// It is intended for channels the caller has just written.
func (t *Table) MustColumn(name string) []float64 {
	col, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return col
}

// WithColumn returns a new table with the channel added, or replaced if it exists.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if name == Time {
		return nil, fmt.Errorf("cannot overwrite the time index")
	}
	if len(values) != len(t.time) {
		return nil, fmt.Errorf("column %q has %d values for %d rows: %w", name, len(values), len(t.time), ErrLengthMismatch)
	}
	col := make([]float64, len(values))
	copy(col, values)

	out := t.shallow()
	if _, ok := out.columns[name]; !ok {
		out.names = append(out.names, name)
	}
	out.columns[name] = col
	return out, nil
}

// Select returns a table holding only the named channels, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{time: t.time, columns: make(map[string][]float64, len(names))}
	for _, name := range names {
		col, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
		}
		out.names = append(out.names, name)
		out.columns[name] = col
	}
	return out, nil
}

// Slice returns rows from start to end (exclusive), re-indexed from zero.
// Out of range bounds are clipped.
func (t *Table) Slice(start, end int) *Table {
	if start < 0 {
		start = 0
	}
	if end > len(t.time) {
		end = len(t.time)
	}
	if start >= end {
		start, end = 0, 0
	}
	out := &Table{
		time:    cloneRange(t.time, start, end),
		names:   append([]string(nil), t.names...),
		columns: make(map[string][]float64, len(t.columns)),
	}
	for name, col := range t.columns {
		out.columns[name] = cloneRange(col, start, end)
	}
	return out
}

// Filter returns the rows for which keep is true, preserving order.
func (t *Table) Filter(keep []bool) (*Table, error) {
	if len(keep) != len(t.time) {
		return nil, fmt.Errorf("mask has %d values for %d rows: %w", len(keep), len(t.time), ErrLengthMismatch)
	}
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return t.take(idx), nil
}

// ShiftTime returns a copy whose time index is time - offset.
func (t *Table) ShiftTime(offset float64) *Table {
	out := t.shallow()
	out.time = make([]float64, len(t.time))
	copy(out.time, t.time)
	floats.AddConst(-offset, out.time)
	return out
}

// Join returns the inner join of t and other on the time index. Rows keep
// the order of t; rows without a simultaneous sample in other are dropped.
// Channels present in both tables take the values of other.
func (t *Table) Join(other *Table) *Table {
	lookup := make(map[int64]int, other.Len())
	for i, v := range other.time {
		k := timeKey(v)
		if _, dup := lookup[k]; !dup {
			lookup[k] = i
		}
	}

	left := make([]int, 0, len(t.time))
	right := make([]int, 0, len(t.time))
	for i, v := range t.time {
		if j, ok := lookup[timeKey(v)]; ok {
			left = append(left, i)
			right = append(right, j)
		}
	}

	out := t.take(left)
	picked := other.take(right)
	for _, name := range picked.names {
		if _, ok := out.columns[name]; !ok {
			out.names = append(out.names, name)
		}
		out.columns[name] = picked.columns[name]
	}
	return out
}

// Concat appends tables row-wise. All tables must share the same channels.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return NewTable(nil), nil
	}
	first := tables[0]
	out := &Table{
		names:   append([]string(nil), first.names...),
		columns: make(map[string][]float64, len(first.columns)),
	}
	for _, tbl := range tables {
		if len(tbl.names) != len(first.names) {
			return nil, fmt.Errorf("tables have %d and %d columns: %w", len(first.names), len(tbl.names), ErrLengthMismatch)
		}
		out.time = append(out.time, tbl.time...)
		for _, name := range first.names {
			col, ok := tbl.columns[name]
			if !ok {
				return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
			}
			out.columns[name] = append(out.columns[name], col...)
		}
	}
	return out, nil
}

// Row returns the values of row i keyed by channel name, including time.
func (t *Table) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(t.names)+1)
	row[Time] = t.time[i]
	for _, name := range t.names {
		row[name] = t.columns[name][i]
	}
	return row
}

// MaxIdx returns the index of the first maximum of a channel.
func (t *Table) MaxIdx(name string) (int, error) {
	col, ok := t.columns[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	if len(col) == 0 {
		return 0, fmt.Errorf("max of empty column %q", name)
	}
	return floats.MaxIdx(col), nil
}

// Extent returns the minimum and maximum of a channel, or NaN for an empty table.
func (t *Table) Extent(name string) (lo, hi float64, err error) {
	col, ok := t.columns[name]
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	if len(col) == 0 {
		return math.NaN(), math.NaN(), nil
	}
	return floats.Min(col), floats.Max(col), nil
}

func (t *Table) shallow() *Table {
	out := &Table{
		time:    t.time,
		names:   append([]string(nil), t.names...),
		columns: make(map[string][]float64, len(t.columns)+1),
	}
	for name, col := range t.columns {
		out.columns[name] = col
	}
	return out
}

func (t *Table) take(idx []int) *Table {
	out := &Table{
		time:    make([]float64, len(idx)),
		names:   append([]string(nil), t.names...),
		columns: make(map[string][]float64, len(t.columns)),
	}
	for i, j := range idx {
		out.time[i] = t.time[j]
	}
	for name, col := range t.columns {
		c := make([]float64, len(idx))
		for i, j := range idx {
			c[i] = col[j]
		}
		out.columns[name] = c
	}
	return out
}

func cloneRange(s []float64, start, end int) []float64 {
	out := make([]float64, end-start)
	copy(out, s[start:end])
	return out
}

func timeKey(v float64) int64 {
	return int64(math.Round(v / TimeResolution))
}
