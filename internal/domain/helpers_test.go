package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapSource map[string]*ModelData

func (m mapSource) Model(name string) (*ModelData, bool) {
	d, ok := m[name]
	return d, ok
}

var nan = math.NaN()

// monthly returns the first-of-month timestamps from Jan of begin through Dec
// of end.
func monthly(begin, end int) []time.Time {
	var out []time.Time
	for y := begin; y <= end; y++ {
		for m := time.January; m <= time.December; m++ {
			out = append(out, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
		}
	}
	return out
}

func years(begin, end int) []int {
	out := make([]int, 0, end-begin+1)
	for y := begin; y <= end; y++ {
		out = append(out, y)
	}
	return out
}

// constModel builds a grid over lats with every cell set to v.
func constModel(times []time.Time, lats []float64, v float64) *ModelData {
	values := make([][]float64, len(times))
	for t := range values {
		row := make([]float64, len(lats))
		for l := range row {
			row[l] = v
		}
		values[t] = row
	}
	return &ModelData{Times: times, Lats: lats, Values: values}
}

// assertFloats compares with tolerance and treats NaN as equal to NaN.
func assertFloats(t *testing.T, want, got []float64) {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}
