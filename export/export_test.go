package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/godems/batch"
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/simulate"
	"github.com/sartorproj/godems/sweep"
)

func testResult(t *testing.T) *sweep.Result {
	t.Helper()
	d, err := simulate.Experiment("exp_c_", []int{1, 2}, []simulate.CycleParams{
		{VertexPotential: 0.8, Delay: -0.4},
		{VertexPotential: 2.9, Delay: -0.4},
	})
	require.NoError(t, err)

	cfg := sweep.DefaultConfig()
	cfg.TimeShifts = []float64{-0.4}
	cfg.KShifts = []float64{0, 0.1}
	res, err := sweep.Run(context.Background(), []experiment.Description{d}, cfg)
	require.NoError(t, err)
	return res
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestLongCSV(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, LongHeader(), LongRecords(res.Long)))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, LongHeader(), records[0])
	assert.Equal(t, "exp_c_", records[1][0])
	assert.Equal(t, "1", records[1][1])
	assert.Equal(t, "-0.4", records[1][2])
	assert.Equal(t, "", records[1][4], "no fixed K")
	assert.Equal(t, "0.8", records[1][5])
	// A 2.9 V vertex lies beyond the last bucket.
	assert.Equal(t, "", records[4][5])
	assert.Equal(t, "2", records[4][1])
}

func TestShortCSV(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ShortHeader(), ShortRecords(res.Short)))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	header := records[0]
	assert.Equal(t, integrate.KeyVertexPotential, header[0])
	assert.Equal(t, "count", header[1])
	assert.Equal(t, integrate.KeyTotalJ, header[2])
	assert.Equal(t, integrate.KeyTotalJ+" std", header[3])
	assert.Len(t, header, 2+2*(len(integrate.SummaryKeys())-1))
	assert.Equal(t, "0.8", records[1][0])
	assert.Equal(t, "2", records[1][1])
	mean, err := strconv.ParseFloat(records[1][2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 296, mean, 1e-6)
	std, err := strconv.ParseFloat(records[1][3], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0, std, 1e-9)
}

func TestOverviewCSV(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, batch.Header(), OverviewRecords(res.Overviews[0])))
	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, "cycle", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2", records[2][0])
}

func TestWriteXLSX(t *testing.T) {
	res := testResult(t)
	path := filepath.Join(t.TempDir(), "charges.xlsx")
	require.NoError(t, WriteXLSX(path, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLong, SheetShort}, f.GetSheetList())

	rows, err := f.GetRows(SheetLong)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "experiment", rows[0][0])
	assert.Equal(t, "exp_c_", rows[1][0])

	rows, err = f.GetRows(SheetShort)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0.8", rows[1][0])
}

func TestPlotCharges(t *testing.T) {
	res := testResult(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "q.png")
	require.NoError(t, PlotCharges(path, res, integrate.KeyDiffPos))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, PlotCharges(filepath.Join(dir, "x.png"), res, "Q_unknown"))

	paths, err := PlotAll(dir, res)
	require.NoError(t, err)
	assert.Len(t, paths, len(integrate.SummaryKeys())-1)
	assert.Contains(t, paths, filepath.Join(dir, "Q_tot_j_minus_Q_tot_M.png"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Q_cathodic", FileName(integrate.KeyCathodic))
	assert.Equal(t, "Q_diff_pos_plus_Q_diff_neg", FileName(integrate.KeyDiffSum))
	assert.Equal(t, "Q_tot_j_sim_neg_plus_cathodic", FileName(integrate.KeySimNegPlusCathodic))
}
