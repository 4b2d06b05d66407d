package stats

import (
	"errors"
	"fmt"
	"sort"
)

// ErrFilterWidth is returned for an even or non-positive median filter width.
var ErrFilterWidth = errors.New("median filter width must be odd and at least 1")

// DefaultFilterWidth is the median filter width used for ion current smoothing.
const DefaultFilterWidth = 9

// MedianFilter applies a running median of the given odd width.
// The signal is zero-padded at both ends, so the first and last width/2
// outputs are pulled towards zero. A width of 1 returns a copy of the input.
func MedianFilter(data []float64, width int) ([]float64, error) {
	if width < 1 || width%2 == 0 {
		return nil, fmt.Errorf("width %d: %w", width, ErrFilterWidth)
	}
	out := make([]float64, len(data))
	if width == 1 {
		copy(out, data)
		return out, nil
	}

	half := width / 2
	window := make([]float64, width)
	for i := range data {
		for k := 0; k < width; k++ {
			j := i - half + k
			if j < 0 || j >= len(data) {
				window[k] = 0
			} else {
				window[k] = data[j]
			}
		}
		sort.Float64s(window)
		out[i] = window[half]
	}
	return out, nil
}
