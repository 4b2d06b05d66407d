package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "warn"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func simulated(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := run(t, "simulate", "--out", dir, "--cycles", "1,2", "--vertex", "1.0,1.1")
	require.NoError(t, err)
	return filepath.Join(dir, descriptionFile)
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestSimulateWritesDescription(t *testing.T) {
	path := simulated(t)

	d, err := experiment.LoadDescription(path)
	require.NoError(t, err)
	assert.Equal(t, "sim", d.Name)
	assert.Equal(t, []int{1, 2}, d.CycleNumbers())
	require.NotNil(t, d.Interval)
	assert.InDelta(t, -0.4, *d.Interval, 1e-12)

	for _, name := range []string{"sim1.csv", "sim2.csv"} {
		assert.FileExists(t, filepath.Join(filepath.Dir(path), name))
	}
}

func TestIntegrateCommand(t *testing.T) {
	path := simulated(t)

	out, err := run(t, "integrate", path)
	require.NoError(t, err)

	records := readCSV(t, []byte(out))
	require.Len(t, records, 3)
	col := column(records[0], integrate.KeyTotalJ)
	require.GreaterOrEqual(t, col, 0)
	for _, rec := range records[1:] {
		v, err := strconv.ParseFloat(rec[col], 64)
		require.NoError(t, err)
		assert.InDelta(t, 296, v, 1e-6)
	}
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2", records[2][0])
}

func TestIntegrateCommandFixedK(t *testing.T) {
	path := simulated(t)

	out, err := run(t, "integrate", path, "--fixed-k", "2", "--round", "3")
	require.NoError(t, err)

	records := readCSV(t, []byte(out))
	col := column(records[0], integrate.KeyTotalM)
	require.GreaterOrEqual(t, col, 0)
	v, err := strconv.ParseFloat(records[1][col], 64)
	require.NoError(t, err)
	assert.InDelta(t, 100, v, 1e-9)
}

func TestIntegrateCommandOutFile(t *testing.T) {
	path := simulated(t)
	out := filepath.Join(t.TempDir(), "results", "cycles.csv")

	stdout, err := run(t, "integrate", path, "--out", out, "--round", "0")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	records := readCSV(t, data)
	require.Len(t, records, 3)
	col := column(records[0], integrate.KeyTotalJ)
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, "296", records[1][col])
	assert.Equal(t, "1e-06", records[1][column(records[0], "K_power")])
}

func TestSweepCommand(t *testing.T) {
	path := simulated(t)
	out := filepath.Join(t.TempDir(), "out")

	_, err := run(t, "sweep", path, "--out", out, "--plots")
	require.NoError(t, err)

	for _, name := range []string{longFile, shortFile, xlsxFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	plots, err := filepath.Glob(filepath.Join(out, plotDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, plots, len(integrate.SummaryKeys())-1)

	data, err := os.ReadFile(filepath.Join(out, shortFile))
	require.NoError(t, err)
	short := readCSV(t, data)
	// Buckets 1.0 and 1.1 with the default grid: two successful intervals
	// and three K shifts per cycle.
	require.Len(t, short, 3)
	assert.Equal(t, "6", short[1][1])
	assert.Equal(t, "6", short[2][1])
}

func TestSyntheticCommand(t *testing.T) {
	path := simulated(t)
	out := t.TempDir()

	_, err := run(t, "synthetic", path, "--out", out, "--k-min", "0.5", "--k-max", "0.7", "--k-increment", "0.1")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(out, "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, files, 4)

	d, err := experiment.LoadDescription(filepath.Join(out, "sim_K_0.50_0.60.yaml"))
	require.NoError(t, err)
	c, ok := d.Cycle(2)
	require.True(t, ok)
	assert.InDelta(t, 0.6, c.KPrefactor, 1e-12)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "integrate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "simulate", "--out", t.TempDir(), "--cycles", "1,2,3", "--vertex", "1.0,1.1")
	assert.Error(t, err)

	_, err = run(t, "--log-format", "xml", "simulate", "--out", t.TempDir())
	assert.Error(t, err)
}
