package domain

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
)

// DefaultObservedPattern matches the names of observational datasets, which
// are never shifted.
const DefaultObservedPattern = `SBUV|observ`

// CompileObservedPattern compiles pattern for case-insensitive matching.
// An empty pattern matches nothing.
func CompileObservedPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile observed pattern %q: %w", pattern, err)
	}
	return re, nil
}

// ReferenceValue aggregates the reference measurement on its own (yearly,
// unsmoothed) and returns its value at the reference year together with that
// yearly series.
func ReferenceValue(src Source, req Request, sel Selection, logger *slog.Logger) (float64, YearlyTable, error) {
	ens, err := SliceEnsemble(src, []string{req.RefMeas}, sel, logger)
	if err != nil {
		return math.NaN(), YearlyTable{}, fmt.Errorf("reference measurement: %w", err)
	}
	yearly := AggregateYearly(ens, req.RefMeas, req.RefFillNA)

	value := yearly.Value(req.RefMeas, req.RefYear)
	if math.IsNaN(value) {
		return math.NaN(), YearlyTable{}, fmt.Errorf("%w: %s has no value in reference year %d",
			ErrInsufficientData, req.RefMeas, req.RefYear)
	}
	return value, yearly, nil
}

// ReferenceShifts returns, per column of t, refValue minus the column's value
// at refYear. Columns matching observed get exactly zero. A column without a
// value at refYear gets NaN.
func ReferenceShifts(t YearlyTable, refValue float64, refYear int, observed *regexp.Regexp) []float64 {
	shifts := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		if observed != nil && observed.MatchString(c.Name) {
			shifts[i] = 0
			continue
		}
		shifts[i] = refValue - t.Value(c.Name, refYear)
	}
	return shifts
}

// ShiftToReference adds each column's reference shift to all of its values.
// A NaN shift turns the whole column into NaN rather than leaving it
// unshifted.
func ShiftToReference(t YearlyTable, refValue float64, refYear int, observed *regexp.Regexp) YearlyTable {
	shifts := ReferenceShifts(t, refValue, refYear, observed)
	out := t.Clone()
	for i := range out.Columns {
		for j := range out.Columns[i].Values {
			out.Columns[i].Values[j] += shifts[i]
		}
	}
	return out
}
