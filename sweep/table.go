package sweep

import (
	"math"
	"sort"

	"github.com/sartorproj/godems/batch"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/stats"
)

const (
	bucketCount = 40
	bucketStart = 0.725
	bucketWidth = 0.05
)

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// VertexBucket discretises a vertex potential into 0.05 V buckets centred
// on 0.75 + 0.05n. A bucket spans [centre − 0.025, centre + 0.025); values
// outside the covered range are not assigned.
func VertexBucket(v float64) (float64, bool) {
	for n := 0; n < bucketCount-1; n++ {
		lo := round3(bucketStart + bucketWidth*float64(n))
		hi := round3(bucketStart + bucketWidth*float64(n+1))
		if v >= lo && v < hi {
			return round3(bucketStart + bucketWidth/2 + bucketWidth*float64(n)), true
		}
	}
	return math.NaN(), false
}

// LongRow is one cycle of one surviving Overview.
type LongRow struct {
	Experiment string
	Cycle      int
	Interval   float64
	KModifier  float64
	FixedK     *float64
	// Bucket is the discretised vertex potential; NaN when Bucketed is false.
	Bucket   float64
	Bucketed bool
	Summary  integrate.Summary
}

// ShortRow aggregates the long rows of one vertex bucket.
type ShortRow struct {
	VertexPotential float64 // bucket centre
	Count           int
	Mean            integrate.Summary
	Std             integrate.Summary
}

// longTable flattens the Overviews and sorts the rows by raw vertex potential.
func longTable(overviews []*batch.Overview) []LongRow {
	var rows []LongRow
	for _, ov := range overviews {
		p := ov.Params()
		for _, c := range ov.CycleDescriptions() {
			bucket, ok := VertexBucket(c.Summary.VertexPotential)
			rows = append(rows, LongRow{
				Experiment: p.Experiment,
				Cycle:      c.Cycle.Number,
				Interval:   p.Interval,
				KModifier:  p.KModifier,
				FixedK:     p.FixedK,
				Bucket:     bucket,
				Bucketed:   ok,
				Summary:    c.Summary,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Summary.VertexPotential < rows[j].Summary.VertexPotential
	})
	return rows
}

// shortTable averages every summary key per bucket within [lower, upper].
func shortTable(long []LongRow, lower, upper *float64) []ShortRow {
	groups := make(map[float64][]integrate.Summary)
	var buckets []float64
	for _, r := range long {
		if !r.Bucketed {
			continue
		}
		if _, seen := groups[r.Bucket]; !seen {
			buckets = append(buckets, r.Bucket)
		}
		groups[r.Bucket] = append(groups[r.Bucket], r.Summary)
	}
	if len(buckets) == 0 {
		return nil
	}
	sort.Float64s(buckets)

	lo, hi := buckets[0], buckets[len(buckets)-1]
	if lower != nil {
		lo = *lower
	}
	if upper != nil {
		hi = *upper
	}

	var out []ShortRow
	for _, b := range buckets {
		if b < lo || b > hi {
			continue
		}
		out = append(out, aggregate(b, groups[b]))
	}
	return out
}

func aggregate(bucket float64, rows []integrate.Summary) ShortRow {
	values := make([][]float64, len(rows))
	for i, s := range rows {
		values[i] = s.Values()
	}
	nKeys := len(integrate.SummaryKeys())
	means := make([]float64, nKeys)
	stds := make([]float64, nKeys)
	column := make([]float64, len(rows))
	for k := 0; k < nKeys; k++ {
		for i := range values {
			column[i] = values[i][k]
		}
		means[k], stds[k] = stats.MeanStd(column)
	}
	mean, _ := integrate.SummaryFromValues(means)
	std, _ := integrate.SummaryFromValues(stds)
	return ShortRow{VertexPotential: bucket, Count: len(rows), Mean: mean, Std: std}
}
