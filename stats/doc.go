// Package stats provides the numeric kernels of the DEMS pipeline.
//
// # Filtering
//
// MedianFilter smooths a noisy ion current with a running median of odd
// width. Edges are zero-padded:
//
//	smooth, err := stats.MedianFilter(ion, stats.DefaultFilterWidth)
//
// # Integration
//
// CumulativeTrapezoid returns the running trapezoidal integral seeded at 0.
// AbsCumulativeTrapezoid reports its absolute value, optionally integrating
// |y| so that a sign-mixed current accumulates charge monotonically:
//
//	q := stats.AbsCumulativeTrapezoid(time, current, false)
//	charge := q[len(q)-1]
//
// # Regression
//
// FitLine fits an ordinary least-squares line; it is used to interpolate a
// calibration factor across cycle numbers from two endpoint observations:
//
//	line, err := stats.FitLine([]float64{107, 120}, []float64{1.1, 1.3})
//	k := line.At(113)
//
// MeanStd summarises a sample, ignoring NaN values.
package stats
