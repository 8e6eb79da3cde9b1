package dataset

import (
	"math"
	"sort"
	"time"

	"github.com/o3as/ensemble-service/internal/domain"
)

// Record is one (time, latitude, value) cell as stored in dataset files.
type Record struct {
	Time  time.Time
	Lat   float64
	Value float64
}

// gridBuilder collects records of one model in any order and assembles them
// into a dense time × latitude grid.
type gridBuilder struct {
	cells map[int64]map[float64]float64
	times map[int64]time.Time
	lats  []float64
	seen  map[float64]bool
}

func newGridBuilder() *gridBuilder {
	return &gridBuilder{
		cells: make(map[int64]map[float64]float64),
		times: make(map[int64]time.Time),
		seen:  make(map[float64]bool),
	}
}

// add stores r. A later record for the same cell replaces the earlier one.
func (b *gridBuilder) add(r Record) {
	ts := r.Time.UTC()
	key := ts.UnixNano()
	row, ok := b.cells[key]
	if !ok {
		row = make(map[float64]float64)
		b.cells[key] = row
		b.times[key] = ts
	}
	row[r.Lat] = r.Value
	if !b.seen[r.Lat] {
		b.seen[r.Lat] = true
		b.lats = append(b.lats, r.Lat)
	}
}

func (b *gridBuilder) empty() bool {
	return len(b.cells) == 0
}

// build returns the grid with ascending times. Latitudes keep the direction
// of the stored data: descending when they first appear in descending order,
// ascending otherwise. Missing cells are NaN.
func (b *gridBuilder) build() *domain.ModelData {
	keys := make([]int64, 0, len(b.cells))
	for k := range b.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	lats := make([]float64, len(b.lats))
	copy(lats, b.lats)
	if descending(b.lats) {
		sort.Sort(sort.Reverse(sort.Float64Slice(lats)))
	} else {
		sort.Float64s(lats)
	}

	times := make([]time.Time, len(keys))
	values := make([][]float64, len(keys))
	for t, k := range keys {
		times[t] = b.times[k]
		row := make([]float64, len(lats))
		cells := b.cells[k]
		for l, lat := range lats {
			v, ok := cells[lat]
			if !ok {
				v = math.NaN()
			}
			row[l] = v
		}
		values[t] = row
	}
	return &domain.ModelData{Times: times, Lats: lats, Values: values}
}

func descending(lats []float64) bool {
	return len(lats) > 1 && lats[0] > lats[1]
}
