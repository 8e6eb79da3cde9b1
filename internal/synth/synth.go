// Package synth builds synthetic tco3_zm datasets for tests and local runs.
//
// Every grid has 19 latitudes (-90..90 in 10 degree steps) and one sample per
// month. Model curves are one cosine period over the whole time span plus
// Gaussian noise; the reference is constant. Output is deterministic for a
// given seed.
package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/o3as/ensemble-service/internal/domain"
)

// ReferenceValue is the constant value of the synthetic reference curve.
const ReferenceValue = 0.5

// Lats returns the synthetic latitude axis.
func Lats() []float64 {
	lats := make([]float64, 0, 19)
	for lat := -90; lat <= 90; lat += 10 {
		lats = append(lats, float64(lat))
	}
	return lats
}

// Months returns first-of-month timestamps from January of begin through
// December of end.
func Months(begin, end int) []time.Time {
	var times []time.Time
	for y := begin; y <= end; y++ {
		for m := time.January; m <= time.December; m++ {
			times = append(times, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
		}
	}
	return times
}

// Model returns one noisy model grid: 0.25*(cos(2πx/n) + noise) + 0.4 with
// noise ~ N(0, 0.125), drawn independently per latitude.
func Model(begin, end int, rng *rand.Rand) *domain.ModelData {
	times := Months(begin, end)
	lats := Lats()
	n := len(times)

	values := make([][]float64, n)
	for t := range values {
		values[t] = make([]float64, len(lats))
	}
	for l := range lats {
		for t := 0; t < n; t++ {
			noise := rng.NormFloat64() * 0.125
			values[t][l] = 0.25*(math.Cos(2*math.Pi*float64(t)/float64(n))+noise) + 0.4
		}
	}
	return &domain.ModelData{Times: times, Lats: lats, Values: values}
}

// Constant returns a grid with every cell set to v.
func Constant(begin, end int, v float64) *domain.ModelData {
	times := Months(begin, end)
	lats := Lats()
	values := make([][]float64, len(times))
	for t := range values {
		row := make([]float64, len(lats))
		for l := range row {
			row[l] = v
		}
		values[t] = row
	}
	return &domain.ModelData{Times: times, Lats: lats, Values: values}
}

// Dataset returns noisy grids for models plus a constant reference grid named
// refMeas.
func Dataset(models []string, refMeas string, begin, end int, seed uint64) map[string]*domain.ModelData {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make(map[string]*domain.ModelData, len(models)+1)
	for _, m := range models {
		out[m] = Model(begin, end, rng)
	}
	out[refMeas] = Constant(begin, end, ReferenceValue)
	return out
}
