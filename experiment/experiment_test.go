package experiment

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/godems/timeseries"
)

const descriptionYAML = `
date: 2019-03-01
data_folder: data
interval: -0.4
experiment_name: exp_c_
cycles:
  120: {K_prefactor: 1.2, K_power: 1.0e-9}
  107: {K_prefactor: 1.0, K_power: 1.0e-9}
  113:
    K_prefactor: 1.1
    K_power: 1.0e-9
    filename: rerun_113.csv
`

func testDescription(t *testing.T) Description {
	t.Helper()
	d, err := DecodeDescription(strings.NewReader(descriptionYAML))
	require.NoError(t, err)
	return d
}

func TestDecodeDescription(t *testing.T) {
	d := testDescription(t)

	assert.Equal(t, "2019-03-01", d.Date)
	assert.Equal(t, "data", d.DataFolder)
	assert.Equal(t, "exp_c_", d.Name)
	require.NotNil(t, d.Interval)
	assert.Equal(t, -0.4, *d.Interval)
	assert.Equal(t, []int{120, 107, 113}, d.CycleNumbers())

	c, ok := d.Cycle(113)
	require.True(t, ok)
	assert.Equal(t, 1.1, c.KPrefactor)
	assert.InDelta(t, 1.1e-9, c.K(), 1e-24)
	assert.Equal(t, "rerun_113.csv", d.Filename(c))

	c, _ = d.Cycle(107)
	assert.Equal(t, "exp_c_107.csv", d.Filename(c))
	assert.False(t, c.Loaded())

	_, ok = d.Cycle(999)
	assert.False(t, ok)
}

func TestDecodeDescriptionIntervalZeroAndAbsent(t *testing.T) {
	d, err := DecodeDescription(strings.NewReader(
		"data_folder: d\nexperiment_name: e\ninterval: 0\ncycles:\n  1: {K_prefactor: 1, K_power: 1}\n"))
	require.NoError(t, err)
	require.NotNil(t, d.Interval)
	assert.Equal(t, 0.0, *d.Interval)

	d, err = DecodeDescription(strings.NewReader(
		"data_folder: d\nexperiment_name: e\ncycles:\n  1: {K_prefactor: 1, K_power: 1}\n"))
	require.NoError(t, err)
	assert.Nil(t, d.Interval)
}

func TestDecodeDescriptionInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no cycles", "data_folder: d\nexperiment_name: e\n", ErrInvalid},
		{"no folder", "experiment_name: e\ncycles:\n  1: {K_prefactor: 1, K_power: 1}\n", ErrInvalid},
		{"zero K power", "data_folder: d\nexperiment_name: e\ncycles:\n  1: {K_prefactor: 1, K_power: 0}\n", ErrInvalid},
		{"duplicate cycle", "data_folder: d\nexperiment_name: e\ncycles:\n  1: {K_prefactor: 1, K_power: 1}\n  1: {K_prefactor: 2, K_power: 1}\n", ErrDuplicateCycle},
		{"unknown cycle field", "data_folder: d\nexperiment_name: e\ncycles:\n  1: {K_prefactor: 1, K_power: 1, K: 3}\n", ErrInvalid},
		{"text cycle key", "data_folder: d\nexperiment_name: e\ncycles:\n  first: {K_prefactor: 1, K_power: 1}\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDescription(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeDescriptionKeepsOrder(t *testing.T) {
	d := testDescription(t)

	var buf bytes.Buffer
	require.NoError(t, EncodeDescription(&buf, d))

	back, err := DecodeDescription(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestStructuralUpdatesDoNotMutate(t *testing.T) {
	d := testDescription(t)

	updated := d.WithKPrefactors(map[int]float64{107: 2.5})
	c, _ := updated.Cycle(107)
	assert.Equal(t, 2.5, c.KPrefactor)
	c, _ = d.Cycle(107)
	assert.Equal(t, 1.0, c.KPrefactor)

	shifted := d.WithInterval(0)
	assert.Equal(t, 0.0, *shifted.Interval)
	assert.Equal(t, -0.4, *d.Interval)

	clone := d.Clone()
	*clone.Interval = 3
	assert.Equal(t, -0.4, *d.Interval)
}

func writeCycle(t *testing.T, path string, offset float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("time,potential,current1_muA,ion_current_M44,ion_current_M44_UVS_ALS_sub\n")
	for i := 0; i < 4; i++ {
		b.WriteString(strings.Join([]string{
			ftoa(offset + float64(i)), ftoa(0.1 * float64(i)), "1", "1e-11", "1e-12",
		}, ","))
		b.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "raw"), 0o755))
	writeCycle(t, filepath.Join(dir, "raw", "exp_c_107.csv"), 0)
	writeCycle(t, filepath.Join(dir, "raw", "exp_c_120.csv"), 10)
	writeCycle(t, filepath.Join(dir, "rerun_113.csv"), 20)

	d := testDescription(t)
	d.DataFolder = dir

	loaded, err := NewLoader(LoaderOptions{Workers: 2}).Load(context.Background(), d)
	require.NoError(t, err)

	for _, c := range loaded.Cycles {
		require.True(t, c.Loaded(), "cycle %d", c.Number)
		assert.True(t, c.Table.Has(timeseries.CurrentDensity))
		assert.Equal(t, 4, c.Table.Len())
	}
	c, _ := loaded.Cycle(120)
	assert.Equal(t, 10.0, c.Table.Time()[0])
	assert.Equal(t, "exp_c_120.csv", c.Filename)
	assert.InDelta(t, 1/timeseries.ElectrodeArea(DefaultElectrodeDiameter),
		c.Table.MustColumn(timeseries.CurrentDensity)[0], 1e-12)

	// The input description is untouched.
	for _, c := range d.Cycles {
		assert.False(t, c.Loaded())
	}
}

func TestLoaderMissingFile(t *testing.T) {
	d := testDescription(t)
	d.DataFolder = t.TempDir()

	_, err := NewLoader(LoaderOptions{}).Load(context.Background(), d)
	assert.ErrorIs(t, err, timeseries.ErrNoFiles)
}

func TestSyntheticKValues(t *testing.T) {
	values, err := Synthetic{KMin: 1.0, KMax: 1.2}.KValues()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 1.05, 1.1, 1.15}, values)

	values, err = Synthetic{KMin: 0.5, KMax: 0.9, KIncrement: 0.1}.KValues()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.6, 0.7, 0.8}, values)

	_, err = Synthetic{KMin: 1, KMax: 1}.KValues()
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Synthetic{KMin: 1, KMax: 2, KIncrement: -0.1}.KValues()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSyntheticLines(t *testing.T) {
	d := testDescription(t)
	s := Synthetic{KMin: 1.0, KMax: 1.2, KIncrement: 0.1}

	pairs, err := s.Pairs()
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{1.0, 1.0}, {1.0, 1.1}, {1.1, 1.0}, {1.1, 1.1}}, pairs)

	lines, err := s.Lines(d)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	// Cycles are 120, 107, 113: the line runs from 107 to 120.
	l := lines[1]
	assert.Equal(t, 1.0, l.Start)
	assert.Equal(t, 1.1, l.End)
	assert.InDelta(t, 1.1, l.KPrefactors[0], 1e-9)
	assert.InDelta(t, 1.0, l.KPrefactors[1], 1e-9)
	assert.InDelta(t, 1.0+0.1*6/13, l.KPrefactors[2], 1e-9)

	descs, err := s.Generate(d)
	require.NoError(t, err)
	require.Len(t, descs, 4)
	c, _ := descs[1].Cycle(120)
	assert.InDelta(t, 1.1, c.KPrefactor, 1e-9)
	c, _ = d.Cycle(120)
	assert.Equal(t, 1.2, c.KPrefactor)
}

func TestSyntheticSingleCycle(t *testing.T) {
	d := Description{DataFolder: "d", Name: "e", Cycles: []Cycle{{Number: 1, KPrefactor: 1, KPower: 1}}}
	_, err := Synthetic{KMin: 1, KMax: 1.1}.Lines(d)
	assert.ErrorIs(t, err, ErrInvalid)
}
