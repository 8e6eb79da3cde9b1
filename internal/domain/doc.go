// Package domain implements the ensemble statistics pipeline for zonal-mean
// total column ozone (tco3_zm) model curves.
//
// # Stages
//
// Every stage is a pure function over an explicit table and returns a new
// table; inputs are never mutated.
//
//	SliceModel        model grid -> Series (latitude band mean, time window, months)
//	BuildEnsemble     []Series -> EnsembleTable (outer join on timestamps)
//	AggregateYearly   EnsembleTable -> YearlyTable (NaN-skipping yearly mean)
//	SmoothBoxcar      YearlyTable -> YearlyTable (mirror-padded moving average)
//	ShiftToReference  YearlyTable -> YearlyTable (align models at the reference year)
//	AddEnsembleStats  YearlyTable -> YearlyTable (+ MMMean, MMMean±Std, MMMedian)
//	ReturnYears       YearlyTable -> ReturnYearTable (one row per region)
//
// # Missing values
//
// A missing value is NaN throughout. The upstream datasets also use an exact
// zero as a fill value; SliceModel turns a zero band mean into NaN. Tables
// encode NaN as JSON null.
//
// # Reference alignment
//
// The reference measurement (by default the merged SBUV satellite record) is
// aggregated on its own, unsmoothed, and its value in the reference year is
// the reference value. Each model is shifted by the difference between that
// value and its own smoothed value in the reference year, so all curves meet
// there. Observational datasets, matched by a configurable name pattern, are
// never shifted. A model without a value in the reference year gets a NaN
// shift and its whole shifted curve becomes NaN.
//
// # Return year
//
// The return year of a curve is the first year after the reference year plus
// a margin (5 years by default) in which the curve exceeds the reference
// value. Curves that never do have no return year.
package domain
