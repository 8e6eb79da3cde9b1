package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanseModels(t *testing.T) {
	got := CleanseModels([]string{` "CCMI-1_ACCESS_ACCESS-CCM-refC2" `, "", "  ", "model-b", `"model-b"`, "model-c"})
	assert.Equal(t, []string{"CCMI-1_ACCESS_ACCESS-CCM-refC2", "model-b", "model-c"}, got)
}

func TestRequestValidate(t *testing.T) {
	valid := func() Request {
		r := DefaultRequest()
		r.Models = []string{"m"}
		return r
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
		errMsg string
	}{
		{"valid", func(*Request) {}, ""},
		{"no models", func(r *Request) { r.Models = []string{" ", ""} }, "at least one model"},
		{"begin after end", func(r *Request) { r.Begin, r.End = 2000, 1990 }, "begin 2000 is after end 1990"},
		{"latitude out of range", func(r *Request) { r.LatMin = -91 }, "within -90..90"},
		{"inverted band", func(r *Request) { r.LatMin, r.LatMax = 10, -10 }, "lat_min 10 is above lat_max -10"},
		{"no reference", func(r *Request) { r.RefMeas = ` "" ` }, "ref_meas is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultRegions(t *testing.T) {
	names := make([]string, 0, 7)
	for _, r := range DefaultRegions() {
		names = append(names, r.Name)
		assert.LessOrEqual(t, r.LatMin, r.LatMax, r.Name)
	}
	assert.Equal(t, []string{
		"Antarctic(Oct)", "SH mid-lat", "Tropics", "NH mid-lat", "Arctic(Mar)", "Near global", "Global",
	}, names)
}

func TestRequest_UserRegion(t *testing.T) {
	r := DefaultRequest()
	r.LatMin, r.LatMax, r.Months = -30, 30, []int{1, 2}

	reg := r.UserRegion()
	assert.Equal(t, Region{Name: UserRegionName, LatMin: -30, LatMax: 30, Months: []int{1, 2}}, reg)

	r.RegionName = "Custom"
	assert.Equal(t, "Custom", r.UserRegion().Name)

	sel := r.ForRegion(DefaultRegions()[4])
	assert.Equal(t, Selection{Begin: DefaultBeginYear, End: DefaultEndYear, LatMin: 60, LatMax: 90, Months: []int{3}}, sel)
}
