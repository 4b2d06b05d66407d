package integrate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/godems/timeseries"
	"github.com/sartorproj/godems/timeshift"
)

func ptr[T any](v T) *T { return &v }

// cycleTable is a six sample cycle with its vertex at index 2. The current
// density turns cathodic on the last two samples of the negative scan.
func cycleTable(t *testing.T, j []float64) *timeseries.Table {
	t.Helper()
	sim := []float64{1, 1, 1, 1, 1, 1}
	residual := make([]float64, len(j))
	for i := range j {
		residual[i] = j[i] - sim[i]
	}
	tbl, err := timeseries.FromColumns(
		[]float64{0, 1, 2, 3, 4, 5},
		[]string{timeseries.Potential, timeseries.CurrentDensity, timeseries.SimCurrent, timeseries.ResidualCurrent},
		[][]float64{{0.1, 0.2, 0.3, 0.25, 0.2, 0.1}, j, sim, residual},
	)
	require.NoError(t, err)
	return tbl
}

func defaultCycle(t *testing.T) *timeseries.Table {
	return cycleTable(t, []float64{2, 2, 2, 2, -2, -2})
}

func TestComputeRegions(t *testing.T) {
	res, err := Compute(defaultCycle(t), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.VertexIndex)
	assert.Equal(t, 0.3, res.VertexPotential)
	assert.Equal(t, 2.0, res.K)

	want := map[Region]float64{
		TotalJ:    6,
		TotalJPos: 4,
		TotalJNeg: 2,
		Cathodic:  2,
		TotalM:    5,
		TotalMPos: 2,
		TotalMNeg: 3,
		SimPos:    2,
		SimNeg:    3,
	}
	for r, q := range want {
		assert.InDelta(t, q, res.Charge(r).Charge, 1e-12, r.String())
	}
	for _, rc := range res.Charges() {
		assert.GreaterOrEqual(t, rc.Charge, 0.0, rc.Region.String())
		assert.Equal(t, rc.Region.Channel(), rc.Axis)
		assert.True(t, rc.Table.Has(ChargeColumn))
	}
}

func TestScanPartition(t *testing.T) {
	res, err := Compute(defaultCycle(t), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.PositiveScan().Len())
	assert.Equal(t, 4, res.NegativeScan().Len())
	assert.Equal(t, 0.3, res.PositiveScan().MustColumn(timeseries.Potential)[2])
	assert.Equal(t, 0.3, res.NegativeScan().MustColumn(timeseries.Potential)[0])

	assert.InDelta(t,
		res.Charge(TotalM).Charge,
		res.Charge(TotalMPos).Charge+res.Charge(TotalMNeg).Charge, 1e-12)
}

func TestCathodicFallback(t *testing.T) {
	res, err := Compute(cycleTable(t, []float64{2, 2, 2, 2, 0.5, 0.5}), 1, nil)
	require.NoError(t, err)

	cat := res.Charge(Cathodic)
	assert.Equal(t, 0.0, cat.Charge)
	require.Equal(t, 2, cat.Table.Len())
	assert.Equal(t, []float64{2, 3}, cat.Table.Time())
	assert.Equal(t, []float64{0, 0}, cat.Table.MustColumn(ChargeColumn))
}

func TestBoundsAreExclusive(t *testing.T) {
	tests := []struct {
		name   string
		limit  Limit
		times  []float64
		charge float64
	}{
		{"lower", Limit{Lower: ptr(0.1), Upper: ptr(0.35)}, []float64{1, 2}, 1},
		{"upper", Limit{Lower: ptr(0.05), Upper: ptr(0.3)}, []float64{0, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(defaultCycle(t), 1, Limits{SimPos: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.times, res.Charge(SimPos).Table.Time())
			assert.InDelta(t, tt.charge, res.Charge(SimPos).Charge, 1e-12)
		})
	}
}

func TestLowerBoundOnly(t *testing.T) {
	limits := Limits{TotalM: {Lower: ptr(0.1), Upper: ptr(0.22)}}
	res, err := Compute(defaultCycle(t), 1, limits)
	require.NoError(t, err)

	// The samples at 0.1 V go, the upper bound is not applied.
	sel := res.Charge(TotalM).Table
	assert.Equal(t, []float64{1, 2, 3, 4}, sel.Time())
	assert.InDelta(t, 3, res.Charge(TotalM).Charge, 1e-12)
}

func TestUpperLimitIgnored(t *testing.T) {
	want := map[Region]float64{
		TotalJ:    6,
		TotalJPos: 4,
		Cathodic:  2,
		TotalM:    5,
		TotalMPos: 2,
		TotalMNeg: 3,
	}
	for r, q := range want {
		res, err := Compute(defaultCycle(t), 1, Limits{r: {Upper: ptr(0.22)}})
		require.NoError(t, err, r.String())
		assert.InDelta(t, q, res.Charge(r).Charge, 1e-12, r.String())
	}

	res, err := Compute(defaultCycle(t), 1, Limits{SimNeg: {Upper: ptr(0.15)}})
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, res.Charge(SimNeg).Table.Time())
}

func TestNegativeScanIgnoresBounds(t *testing.T) {
	limits := Limits{TotalJNeg: {Lower: ptr(5.0), Upper: ptr(6.0)}}
	res, err := Compute(defaultCycle(t), 1, limits)
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Charge(TotalJNeg).Charge, 1e-12)
}

func TestSignOverride(t *testing.T) {
	neg := SignNegative
	res, err := Compute(defaultCycle(t), 1, Limits{TotalJ: {Current: &neg}})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Charge(TotalJ).Charge, 1e-12)

	_, err = Compute(defaultCycle(t), 1, Limits{TotalM: {Current: &neg}})
	assert.ErrorIs(t, err, ErrEmptyRegion)
	assert.Contains(t, err.Error(), "Q_tot_M")
}

func TestEmptyRegion(t *testing.T) {
	_, err := Compute(defaultCycle(t), 1, Limits{TotalJ: {Lower: ptr(5.0), Upper: ptr(6.0)}})
	assert.ErrorIs(t, err, ErrEmptyRegion)

	empty := defaultCycle(t).Slice(0, 0)
	_, err = Compute(empty, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyRegion)

	_, err = Compute(defaultCycle(t), 1, Limits{Cathodic: {Lower: ptr(5.0), Upper: ptr(6.0)}})
	assert.NoError(t, err)
}

func TestNewFromAligned(t *testing.T) {
	res, err := New(&timeshift.Aligned{Table: defaultCycle(t), K: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.K)
	assert.InDelta(t, 6, res.Charge(TotalJ).Charge, 1e-12)
}

func TestSummary(t *testing.T) {
	res, err := Compute(defaultCycle(t), 1, nil)
	require.NoError(t, err)

	want := Summary{
		TotalJ:               6,
		TotalM:               5,
		TotalJMinusM:         1,
		TotalJPos:            4,
		TotalMPos:            2,
		DiffPos:              2,
		TotalJNeg:            2,
		TotalMNeg:            3,
		DiffNeg:              -1,
		DiffNegMinusCathodic: -3,
		Cathodic:             2,
		DiffSum:              1,
		VertexPotential:      0.3,
		SimPos:               2,
		SimNeg:               3,
		SimNegPlusCathodic:   5,
	}
	if diff := cmp.Diff(want, res.Summary(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}

	v, ok := res.Summary().Get(KeyDiffSum)
	assert.True(t, ok)
	assert.InDelta(t, 1, v, 1e-12)
	_, ok = res.Summary().Get("Q_unknown")
	assert.False(t, ok)
}

func TestSummaryKeysAndValues(t *testing.T) {
	keys := SummaryKeys()
	require.Len(t, keys, 16)
	assert.Equal(t, KeyTotalJ, keys[0])
	assert.Equal(t, KeyVertexPotential, keys[12])
	assert.Equal(t, KeySimNegPlusCathodic, keys[15])

	s := Summary{TotalJ: 1.23456, VertexPotential: 0.876}
	vals := s.Values()
	assert.Equal(t, 1.23456, vals[0])
	assert.Equal(t, 0.876, vals[12])
	assert.Equal(t, 0.876, s.Map()[KeyVertexPotential])

	r := s.Round(2)
	assert.Equal(t, 1.23, r.TotalJ)
	assert.Equal(t, 0.88, r.VertexPotential)
	assert.Equal(t, 1.23456, s.TotalJ)

	back, err := SummaryFromValues(vals)
	require.NoError(t, err)
	assert.Equal(t, s, back)
	_, err = SummaryFromValues(vals[:3])
	assert.Error(t, err)
}

func TestParseLimits(t *testing.T) {
	limits, err := ParseLimits(map[string]LimitSpec{
		"Q_tot_j":    {Lower: ptr(0.05), Upper: ptr(1.2)},
		"Q cathodic": {Current: "negative"},
	})
	require.NoError(t, err)
	require.Len(t, limits, 2)
	assert.Equal(t, 0.05, *limits[TotalJ].Lower)
	assert.Equal(t, SignNegative, *limits[Cathodic].Current)
	assert.Equal(t, "negative", limits.Specs()["Q cathodic"].Current)

	_, err = ParseLimits(map[string]LimitSpec{"Q_bogus": {}})
	assert.ErrorIs(t, err, ErrUnknownRegion)
	assert.Contains(t, err.Error(), "Q_bogus")

	_, err = ParseLimits(map[string]LimitSpec{"Q_tot_M": {Current: "sideways"}})
	assert.ErrorIs(t, err, ErrInvalidSign)

	limits, err = ParseLimits(nil)
	assert.NoError(t, err)
	assert.Nil(t, limits)
}

func TestParseRegion(t *testing.T) {
	for _, r := range Regions() {
		got, err := ParseRegion(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	assert.Equal(t, "Region(42)", Region(42).String())
	assert.Equal(t, ScanNegative, Cathodic.Scan())
	assert.Equal(t, timeseries.ResidualCurrent, SimNeg.Channel())
}
