package domain

import (
	"fmt"
	"strings"
)

// Defaults applied by DefaultRequest. The reference year and time window
// follow the conventions of the published return-year plots.
const (
	DefaultBeginYear = 1959
	DefaultEndYear   = 2100
	DefaultRefYear   = 1980
	DefaultRefMeas   = "SBUV_GSFC_merged-SAT-ozone"

	// UserRegionName labels the request-supplied region in return-year tables.
	UserRegionName = "User region"
)

// Region is a named latitude band, optionally restricted to some months.
type Region struct {
	Name   string  `json:"name"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	Months []int   `json:"month,omitempty"`
}

// DefaultRegions returns the predefined return-year regions in their fixed
// output order.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Antarctic(Oct)", LatMin: -90, LatMax: -60, Months: []int{10}},
		{Name: "SH mid-lat", LatMin: -60, LatMax: -35},
		{Name: "Tropics", LatMin: -20, LatMax: 20},
		{Name: "NH mid-lat", LatMin: 35, LatMax: 60},
		{Name: "Arctic(Mar)", LatMin: 60, LatMax: 90, Months: []int{3}},
		{Name: "Near global", LatMin: -60, LatMax: 60},
		{Name: "Global", LatMin: -90, LatMax: 90},
	}
}

// Request describes one ensemble computation. The latitude band and months
// form the user region in return-year mode.
type Request struct {
	ID        string   `json:"id,omitempty"`
	Models    []string `json:"models"`
	Begin     int      `json:"begin"`
	End       int      `json:"end"`
	Months    []int    `json:"month,omitempty"`
	LatMin    float64  `json:"lat_min"`
	LatMax    float64  `json:"lat_max"`
	RefMeas   string   `json:"ref_meas"`
	RefYear   int      `json:"ref_year"`
	RefFillNA bool     `json:"ref_fillna"`

	// RegionName overrides UserRegionName for the user row.
	RegionName string `json:"region,omitempty"`
}

// DefaultRequest returns a request covering the whole globe over the
// default time window, to be overlaid by decoded JSON.
func DefaultRequest() Request {
	return Request{
		Begin:     DefaultBeginYear,
		End:       DefaultEndYear,
		LatMin:    -90,
		LatMax:    90,
		RefMeas:   DefaultRefMeas,
		RefYear:   DefaultRefYear,
		RefFillNA: true,
	}
}

// Selection returns the slicing parameters of the request itself.
func (r Request) Selection() Selection {
	return Selection{Begin: r.Begin, End: r.End, LatMin: r.LatMin, LatMax: r.LatMax, Months: r.Months}
}

// ForRegion returns the slicing parameters with the region's band and months.
func (r Request) ForRegion(reg Region) Selection {
	return Selection{Begin: r.Begin, End: r.End, LatMin: reg.LatMin, LatMax: reg.LatMax, Months: reg.Months}
}

// UserRegion returns the request-supplied region.
func (r Request) UserRegion() Region {
	name := r.RegionName
	if name == "" {
		name = UserRegionName
	}
	return Region{Name: name, LatMin: r.LatMin, LatMax: r.LatMax, Months: r.Months}
}

// Validate cleanses the model list in place and checks ranges.
func (r *Request) Validate() error {
	r.Models = CleanseModels(r.Models)
	r.RefMeas = strings.Trim(strings.TrimSpace(r.RefMeas), `"`)

	switch {
	case len(r.Models) == 0:
		return fmt.Errorf("%w: at least one model is required", ErrInvalidRequest)
	case r.Begin > r.End:
		return fmt.Errorf("%w: begin %d is after end %d", ErrInvalidRequest, r.Begin, r.End)
	case r.LatMin < -90 || r.LatMax > 90:
		return fmt.Errorf("%w: latitudes must be within -90..90", ErrInvalidRequest)
	case r.LatMin > r.LatMax:
		return fmt.Errorf("%w: lat_min %g is above lat_max %g", ErrInvalidRequest, r.LatMin, r.LatMax)
	case r.RefMeas == "":
		return fmt.Errorf("%w: ref_meas is required", ErrInvalidRequest)
	}
	return nil
}

// CleanseModels drops empty entries, trims surrounding spaces and quotes,
// and removes duplicates while keeping the first occurrence.
func CleanseModels(models []string) []string {
	seen := make(map[string]bool, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		m = strings.Trim(strings.TrimSpace(m), `"`)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
