package domain

import "math"

// AggregateYearly averages the ensemble per calendar year, skipping NaN.
// A year where a column has no value at all stays NaN for that column, and
// only years present in the data get a row.
//
// With fillRef set, internal gaps of the refMeas column are linearly
// interpolated first; no other column is touched.
func AggregateYearly(t EnsembleTable, refMeas string, fillRef bool) YearlyTable {
	var years []int
	rowYear := make([]int, len(t.Times))
	// Times are sorted, so each year is one contiguous run of rows.
	for i, ts := range t.Times {
		y := ts.UTC().Year()
		if len(years) == 0 || years[len(years)-1] != y {
			years = append(years, y)
		}
		rowYear[i] = len(years) - 1
	}

	out := YearlyTable{Years: years, Columns: make([]Column, len(t.Columns))}
	for ci, c := range t.Columns {
		values := c.Values
		if fillRef && c.Name == refMeas {
			values = interpolateInterior(values)
		}

		sums := make([]float64, len(years))
		counts := make([]int, len(years))
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			sums[rowYear[i]] += v
			counts[rowYear[i]]++
		}

		means := nanSlice(len(years))
		for y := range years {
			if counts[y] > 0 {
				means[y] = sums[y] / float64(counts[y])
			}
		}
		out.Columns[ci] = Column{Name: c.Name, Values: means}
	}
	return out
}

// interpolateInterior returns a copy of values with NaN runs between two
// valid samples filled linearly by position. Leading and trailing NaN are
// kept: nothing is extrapolated.
func interpolateInterior(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	prev := -1
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (v - out[prev]) / float64(i-prev)
			for k := prev + 1; k < i; k++ {
				out[k] = out[prev] + step*float64(k-prev)
			}
		}
		prev = i
	}
	return out
}

// validSpan returns the first and last index holding a non-NaN value, or
// ok=false when there is none.
func validSpan(values []float64) (first, last int, ok bool) {
	first, last = -1, -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last, first >= 0
}
