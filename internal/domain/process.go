package domain

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Params are the numeric settings shared by all requests.
type Params struct {
	BoxcarWindow  int
	RefYearMargin int

	// Observed matches datasets that are never shifted. Nil shifts everything.
	Observed *regexp.Regexp
}

// DefaultParams returns the published settings with DefaultObservedPattern.
func DefaultParams() Params {
	return Params{
		BoxcarWindow:  DefaultBoxcarWindow,
		RefYearMargin: DefaultRefYearMargin,
		Observed:      regexp.MustCompile("(?i)" + DefaultObservedPattern),
	}
}

// Ensemble is the outcome of the shared stages for one selection.
type Ensemble struct {
	// Stats is the smoothed, shifted table with the statistic columns.
	Stats YearlyTable
	// RefValue is the reference measurement's value in the reference year.
	RefValue float64
	// RefYearly is the unsmoothed yearly reference series.
	RefYearly YearlyTable
}

// ComputeEnsemble runs slicing, yearly aggregation, smoothing, reference
// shifting and statistics for the request's models over sel.
func ComputeEnsemble(src Source, req Request, sel Selection, p Params, logger *slog.Logger) (Ensemble, error) {
	ens, err := SliceEnsemble(src, req.Models, sel, logger)
	if err != nil {
		return Ensemble{}, err
	}
	yearly := AggregateYearly(ens, req.RefMeas, req.RefFillNA)

	smoothed, err := SmoothBoxcar(yearly, p.BoxcarWindow)
	if err != nil {
		return Ensemble{}, err
	}

	refValue, refYearly, err := ReferenceValue(src, req, sel, logger)
	if err != nil {
		return Ensemble{}, err
	}

	shifted := ShiftToReference(smoothed, refValue, req.RefYear, p.Observed)
	return Ensemble{
		Stats:     AddEnsembleStats(shifted, req.RefMeas),
		RefValue:  refValue,
		RefYearly: refYearly,
	}, nil
}

// RawEnsemble returns the unsmoothed, unshifted monthly curves of the
// request's models.
func RawEnsemble(src Source, req Request, logger *slog.Logger) (EnsembleTable, error) {
	return SliceEnsemble(src, req.Models, req.Selection(), logger)
}

// PlotEnsemble returns the processed ensemble over the request's own band,
// with the unshifted reference series and a reference_value column.
func PlotEnsemble(src Source, req Request, p Params, logger *slog.Logger) (YearlyTable, error) {
	e, err := ComputeEnsemble(src, req, req.Selection(), p, logger)
	if err != nil {
		return YearlyTable{}, err
	}
	return AttachReference(e.Stats, req.RefMeas, e.RefYearly, e.RefValue), nil
}

// RegionReturnYears computes the return-year row of one region.
func RegionReturnYears(src Source, req Request, region Region, p Params, logger *slog.Logger) (ReturnYearTable, error) {
	e, err := ComputeEnsemble(src, req, req.ForRegion(region), p, logger)
	if err != nil {
		return ReturnYearTable{}, fmt.Errorf("region %s: %w", region.Name, err)
	}
	return ReturnYears(e.Stats, e.RefValue, req.RefYear, p.RefYearMargin, region.Name), nil
}
