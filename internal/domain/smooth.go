package domain

import (
	"fmt"
)

// DefaultBoxcarWindow is the smoothing window, in years, of the published
// ensemble curves.
const DefaultBoxcarWindow = 10

// SmoothBoxcar applies a centered moving average of width window to every
// column of t and returns a new table.
//
// Per column only the span between the first and last valid value is
// smoothed; values outside it stay NaN. Interior gaps are linearly
// interpolated so the convolution is defined, the span is mirror-padded by
// window-1 reflected samples on each side, convolved with a uniform kernel
// in "same" mode, and the central part is written back over the span.
func SmoothBoxcar(t YearlyTable, window int) (YearlyTable, error) {
	if window < 1 {
		return YearlyTable{}, fmt.Errorf("%w: boxcar window %d", ErrInsufficientData, window)
	}

	out := t.Clone()
	for ci := range out.Columns {
		col := &out.Columns[ci]
		first, last, ok := validSpan(col.Values)
		if !ok {
			continue
		}

		span := interpolateInterior(col.Values[first : last+1])
		if len(span) < window {
			return YearlyTable{}, fmt.Errorf("%w: %s has %d yearly values, boxcar needs %d",
				ErrInsufficientData, col.Name, len(span), window)
		}
		copy(col.Values[first:last+1], boxcar(span, window))
	}
	return out, nil
}

// boxcar smooths x (no NaN, len(x) >= w) and returns a slice of len(x).
func boxcar(x []float64, w int) []float64 {
	n := len(x)
	pad := w - 1

	// x[w-1], ..., x[1], x..., x[n-2], ..., x[n-w]
	padded := make([]float64, 0, n+2*pad)
	for k := pad; k >= 1; k-- {
		padded = append(padded, x[k])
	}
	padded = append(padded, x...)
	for k := n - 2; k >= n-w; k-- {
		padded = append(padded, x[k])
	}

	// "same"-mode output p sums padded[p+h-pad .. p+h] with h = (w-1)/2.
	// Keeping p = pad+i leaves padded[i+h .. i+h+pad].
	h := (w - 1) / 2
	out := make([]float64, n)
	for i := range out {
		start := i + h
		var sum float64
		for k := start; k < start+w; k++ {
			sum += padded[k]
		}
		out[i] = sum / float64(w)
	}
	return out
}
