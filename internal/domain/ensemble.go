package domain

import (
	"log/slog"
	"sort"
	"time"
)

// BuildEnsemble outer-joins series on their timestamps. The row index is the
// sorted union of all timestamps; a series without a value at a timestamp
// gets NaN there. Column order follows the input order.
func BuildEnsemble(series []Series) EnsembleTable {
	seen := make(map[int64]bool)
	var times []time.Time
	for _, s := range series {
		for _, ts := range s.Times {
			key := ts.UnixNano()
			if !seen[key] {
				seen[key] = true
				times = append(times, ts)
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	row := make(map[int64]int, len(times))
	for i, ts := range times {
		row[ts.UnixNano()] = i
	}

	cols := make([]Column, len(series))
	for i, s := range series {
		values := nanSlice(len(times))
		for j, ts := range s.Times {
			values[row[ts.UnixNano()]] = s.Values[j]
		}
		cols[i] = Column{Name: s.Name, Values: values}
	}
	return EnsembleTable{Times: times, Columns: cols}
}

// SliceEnsemble slices every model with the same selection and joins the
// results. The first failing model aborts the whole ensemble.
func SliceEnsemble(src Source, models []string, sel Selection, logger *slog.Logger) (EnsembleTable, error) {
	series := make([]Series, 0, len(models))
	for _, m := range models {
		s, err := SliceModel(src, m, sel, logger)
		if err != nil {
			return EnsembleTable{}, err
		}
		series = append(series, s)
	}
	return BuildEnsemble(series), nil
}
