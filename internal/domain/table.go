package domain

import (
	"math"
	"time"
)

// Column is one named curve of a table. Missing values are NaN.
type Column struct {
	Name   string
	Values []float64
}

func (c Column) clone() Column {
	values := make([]float64, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Values: values}
}

// Series is a single model curve on a time axis, as produced by SliceModel.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// EnsembleTable is the time-indexed outer join of several model series.
// Every column has len(Times) values; column names are unique.
type EnsembleTable struct {
	Times   []time.Time
	Columns []Column
}

// Column returns the named column.
func (t EnsembleTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in table order.
func (t EnsembleTable) Names() []string {
	return columnNames(t.Columns)
}

// YearlyTable is indexed by calendar year, ascending.
type YearlyTable struct {
	Years   []int
	Columns []Column
}

// Column returns the named column.
func (t YearlyTable) Column(name string) (Column, bool) {
	if i := t.columnIndex(name); i >= 0 {
		return t.Columns[i], true
	}
	return Column{}, false
}

// Names returns the column names in table order.
func (t YearlyTable) Names() []string {
	return columnNames(t.Columns)
}

// Clone returns a deep copy so stages never mutate their input.
func (t YearlyTable) Clone() YearlyTable {
	years := make([]int, len(t.Years))
	copy(years, t.Years)
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.clone()
	}
	return YearlyTable{Years: years, Columns: cols}
}

// Value returns the mean of the non-null values of column name at year.
// Duplicate rows for the same year are averaged. NaN means no value.
func (t YearlyTable) Value(name string, year int) float64 {
	ci := t.columnIndex(name)
	if ci < 0 {
		return math.NaN()
	}
	var sum float64
	var n int
	for i, y := range t.Years {
		if y != year {
			continue
		}
		if v := t.Columns[ci].Values[i]; !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func (t YearlyTable) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *YearlyTable) appendColumn(name string, values []float64) {
	t.Columns = append(t.Columns, Column{Name: name, Values: values})
}

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
