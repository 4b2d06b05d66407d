package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrDegenerate is returned when a fit has too few distinct observations.
var ErrDegenerate = errors.New("degenerate input")

// Line is a straight line y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine fits an ordinary least-squares line through the observations.
// At least two distinct x values are required.
func FitLine(x, y []float64) (Line, error) {
	if len(x) != len(y) || len(x) < 2 {
		return Line{}, ErrDegenerate
	}
	distinct := false
	for _, v := range x[1:] {
		if v != x[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return Line{}, ErrDegenerate
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return Line{}, ErrDegenerate
	}
	return Line{Intercept: alpha, Slope: beta}, nil
}

// MeanStd returns the mean and sample standard deviation of xs, ignoring NaN.
// The deviation is 0 for fewer than two values and both are NaN for none.
func MeanStd(xs []float64) (mean, std float64) {
	valid := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	switch len(valid) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return valid[0], 0
	}
	return stat.MeanStdDev(valid, nil)
}

// WindowMean returns the mean of data[start:stop].
func WindowMean(data []float64, start, stop int) float64 {
	return stat.Mean(data[start:stop], nil)
}
