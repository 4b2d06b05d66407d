package stats

import "math"

// CumulativeTrapezoid integrates y over x with the trapezoidal rule and
// returns the running integral, seeded with 0 at the first sample.
func CumulativeTrapezoid(x, y []float64) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + (x[i]-x[i-1])*(y[i]+y[i-1])/2
	}
	return out
}

// AbsCumulativeTrapezoid returns the absolute value of the running integral.
// When absolute is set the integrand is |y|, so the result never decreases.
func AbsCumulativeTrapezoid(x, y []float64, absolute bool) []float64 {
	integrand := y
	if absolute {
		integrand = make([]float64, len(y))
		for i, v := range y {
			integrand[i] = math.Abs(v)
		}
	}
	out := CumulativeTrapezoid(x, integrand)
	for i, v := range out {
		out[i] = math.Abs(v)
	}
	return out
}
