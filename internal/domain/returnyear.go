package domain

import "math"

// DefaultRefYearMargin is the number of years after the reference year that
// are ignored when looking for a return.
const DefaultRefYearMargin = 5

// ReturnYearRow holds the return year of every curve for one region. A nil
// entry means the curve never returns to the reference value.
type ReturnYearRow struct {
	Region string `json:"region"`
	Years  []*int `json:"years"`
}

// ReturnYearTable is the region × curve table of return years. Every row has
// one entry per column.
type ReturnYearTable struct {
	Columns []string        `json:"columns"`
	Rows    []ReturnYearRow `json:"rows"`
}

// Year returns the return year of column in the named region's row.
func (t ReturnYearTable) Year(region, column string) (int, bool) {
	ci := -1
	for i, c := range t.Columns {
		if c == column {
			ci = i
			break
		}
	}
	if ci < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.Region == region && r.Years[ci] != nil {
			return *r.Years[ci], true
		}
	}
	return 0, false
}

// ReturnYears finds, for every column of t, the first year after
// refYear+margin whose value exceeds refValue. The comparison series is
// collapsed to its transitions, so the result is where the first run of
// exceeding years starts.
func ReturnYears(t YearlyTable, refValue float64, refYear, margin int, region string) ReturnYearTable {
	row := ReturnYearRow{Region: region, Years: make([]*int, len(t.Columns))}
	for ci, c := range t.Columns {
		row.Years[ci] = firstReturn(t.Years, c.Values, refValue, refYear+margin)
	}
	return ReturnYearTable{Columns: t.Names(), Rows: []ReturnYearRow{row}}
}

func firstReturn(years []int, values []float64, refValue float64, after int) *int {
	for i, y := range years {
		if y <= after {
			continue
		}
		// NaN compares false, like a missing year that has not returned.
		if v := values[i]; !math.IsNaN(v) && v > refValue {
			year := y
			return &year
		}
	}
	return nil
}

// ConcatReturnYears stacks tables row-wise in argument order. Columns are
// the union in first-seen order; a row lacking a column gets nil there.
func ConcatReturnYears(tables ...ReturnYearTable) ReturnYearTable {
	var out ReturnYearTable
	index := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		for _, r := range t.Rows {
			years := make([]*int, len(out.Columns))
			for ci, c := range t.Columns {
				years[index[c]] = r.Years[ci]
			}
			out.Rows = append(out.Rows, ReturnYearRow{Region: r.Region, Years: years})
		}
	}
	return out
}
