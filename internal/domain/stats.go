package domain

import (
	"math"
	"sort"
)

// Names of the columns appended by AddEnsembleStats and AttachReference.
const (
	ColMean           = "MMMean"
	ColMeanMinusStd   = "MMMean-Std"
	ColMeanPlusStd    = "MMMean+Std"
	ColMedian         = "MMMedian"
	ColReferenceValue = "reference_value"
)

// AddEnsembleStats returns a copy of t with the cross-model mean, mean±std
// and median appended. The refMeas column is excluded from the statistics
// but kept in the output. Statistics skip NaN per year; the standard
// deviation is the sample one and needs two values.
func AddEnsembleStats(t YearlyTable, refMeas string) YearlyTable {
	out := t.Clone()

	var models []Column
	for _, c := range t.Columns {
		if c.Name != refMeas {
			models = append(models, c)
		}
	}

	n := len(t.Years)
	mean := nanSlice(n)
	minus := nanSlice(n)
	plus := nanSlice(n)
	median := nanSlice(n)

	row := make([]float64, 0, len(models))
	for i := 0; i < n; i++ {
		row = row[:0]
		for _, c := range models {
			if v := c.Values[i]; !math.IsNaN(v) {
				row = append(row, v)
			}
		}
		if len(row) == 0 {
			continue
		}
		m := meanOf(row)
		sd := stdOf(row, m)
		mean[i] = m
		minus[i] = m - sd
		plus[i] = m + sd
		median[i] = medianOf(row)
	}

	out.appendColumn(ColMean, mean)
	out.appendColumn(ColMeanMinusStd, minus)
	out.appendColumn(ColMeanPlusStd, plus)
	out.appendColumn(ColMedian, median)
	return out
}

// AttachReference prepares a stats table for plotting: the refMeas column,
// when present, is replaced by the unshifted reference series aligned by
// year, and a constant reference_value column is appended.
func AttachReference(t YearlyTable, refMeas string, ref YearlyTable, refValue float64) YearlyTable {
	out := t.Clone()
	if ci := out.columnIndex(refMeas); ci >= 0 {
		values := nanSlice(len(out.Years))
		for i, y := range out.Years {
			values[i] = ref.Value(refMeas, y)
		}
		out.Columns[ci].Values = values
	}

	constant := make([]float64, len(out.Years))
	for i := range constant {
		constant[i] = refValue
	}
	out.appendColumn(ColReferenceValue, constant)
	return out
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// medianOf sorts values in place.
func medianOf(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
