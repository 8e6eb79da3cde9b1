package domain

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ModelData is the zonal-mean grid of one model: Values[t][l] is the value
// at Times[t] and Lats[l]. Lats keep their storage order, which may be
// ascending or descending. Absent cells are NaN.
type ModelData struct {
	Times  []time.Time
	Lats   []float64
	Values [][]float64
}

// Source gives read-only access to the loaded dataset. Implementations must
// be safe for concurrent readers.
type Source interface {
	Model(name string) (*ModelData, bool)
}

// Selection restricts a model grid in time, latitude and months.
type Selection struct {
	Begin  int
	End    int
	LatMin float64
	LatMax float64
	Months []int
}

// monthFilter returns the set of months to keep, or nil for the whole year.
// Out-of-range months disable the filter instead of failing the request.
func (s Selection) monthFilter(logger *slog.Logger) map[time.Month]bool {
	if len(s.Months) == 0 {
		return nil
	}
	keep := make(map[time.Month]bool, len(s.Months))
	for _, m := range s.Months {
		if m < 1 || m > 12 {
			if logger != nil {
				logger.Warn("wrong month number, using whole year range", "months", s.Months)
			}
			return nil
		}
		keep[time.Month(m)] = true
	}
	return keep
}

// SliceModel extracts one model's zonal mean over the selected latitude band
// as a time series. A reduced value of exactly zero is the upstream
// missing-data sentinel and becomes NaN.
func SliceModel(src Source, model string, sel Selection, logger *slog.Logger) (Series, error) {
	data, ok := src.Model(model)
	if !ok || data == nil || len(data.Times) == 0 {
		return Series{}, fmt.Errorf("%w: %s", ErrNoDataForModel, model)
	}

	lo, hi := latitudeSlice(data.Lats, sel.LatMin, sel.LatMax)
	if lo >= hi {
		return Series{}, fmt.Errorf("%w: %s has no latitudes within %g..%g",
			ErrInsufficientData, model, sel.LatMin, sel.LatMax)
	}

	months := sel.monthFilter(logger)
	from := time.Date(sel.Begin, time.January, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(sel.End+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	out := Series{Name: model}
	for t, ts := range data.Times {
		if ts.Before(from) || !ts.Before(until) {
			continue
		}
		if months != nil && !months[ts.Month()] {
			continue
		}
		out.Times = append(out.Times, ts)
		out.Values = append(out.Values, bandMean(data.Values[t][lo:hi]))
	}

	if len(out.Times) == 0 {
		return Series{}, fmt.Errorf("%w: %s has no values in %d..%d",
			ErrInsufficientData, model, sel.Begin, sel.End)
	}
	return out, nil
}

// latitudeSlice returns the index range [lo, hi) of lats inside the band.
// Slice bounds are label based, so for descending storage the bounds are
// swapped to keep the band physically correct.
func latitudeSlice(lats []float64, latMin, latMax float64) (int, int) {
	if len(lats) == 0 {
		return 0, 0
	}
	first, last := latMin, latMax
	ascending := lats[0] <= lats[len(lats)-1]
	if !ascending {
		first, last = latMax, latMin
	}

	lo := len(lats)
	for i, lat := range lats {
		if (ascending && lat >= first) || (!ascending && lat <= first) {
			lo = i
			break
		}
	}
	hi := lo
	for i := lo; i < len(lats); i++ {
		if (ascending && lats[i] > last) || (!ascending && lats[i] < last) {
			break
		}
		hi = i + 1
	}
	return lo, hi
}

func bandMean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	mean := sum / float64(n)
	if mean == 0 {
		return math.NaN()
	}
	return mean
}
