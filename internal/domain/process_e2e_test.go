package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o3as/ensemble-service/internal/dataset"
	"github.com/o3as/ensemble-service/internal/domain"
	"github.com/o3as/ensemble-service/internal/synth"
)

const refMeas = "SBUV_GSFC_merged-SAT-ozone"

var testModels = []string{"test-model-1", "test-model-2", "test-model-3"}

func syntheticRequest(models ...string) domain.Request {
	req := domain.DefaultRequest()
	req.Models = models
	req.Begin = 1970
	req.End = 2100
	req.LatMin = -10
	req.LatMax = 10
	req.RefMeas = refMeas
	req.RefYear = 1980
	return req
}

func syntheticStore(t *testing.T) *dataset.Store {
	t.Helper()
	return dataset.NewStore(synth.Dataset(testModels, refMeas, 1970, 2100, 42))
}

func TestComputeEnsemble_ConstantReferenceValue(t *testing.T) {
	store := syntheticStore(t)

	for _, window := range []int{1, 5, domain.DefaultBoxcarWindow, 25} {
		for n := 1; n <= len(testModels); n++ {
			p := domain.DefaultParams()
			p.BoxcarWindow = window
			req := syntheticRequest(append(append([]string{}, testModels[:n]...), refMeas)...)

			e, err := domain.ComputeEnsemble(store, req, req.Selection(), p, nil)
			require.NoError(t, err)
			assert.Equal(t, synth.ReferenceValue, e.RefValue, "window %d, %d models", window, n)
		}
	}
}

func TestComputeEnsemble_ModelsMeetAtReferenceYear(t *testing.T) {
	store := syntheticStore(t)
	req := syntheticRequest(testModels...)

	e, err := domain.ComputeEnsemble(store, req, req.Selection(), domain.DefaultParams(), nil)
	require.NoError(t, err)

	for _, m := range testModels {
		assert.InDelta(t, synth.ReferenceValue, e.Stats.Value(m, 1980), 1e-12, m)
	}
	assert.InDelta(t, synth.ReferenceValue, e.Stats.Value(domain.ColMean, 1980), 1e-12)
	assert.Equal(t, 1970, e.Stats.Years[0])
	assert.Equal(t, 2100, e.Stats.Years[len(e.Stats.Years)-1])
}

func TestComputeEnsemble_Deterministic(t *testing.T) {
	req := syntheticRequest(append(append([]string{}, testModels...), refMeas)...)

	first, err := domain.ComputeEnsemble(syntheticStore(t), req, req.Selection(), domain.DefaultParams(), nil)
	require.NoError(t, err)
	second, err := domain.ComputeEnsemble(syntheticStore(t), req, req.Selection(), domain.DefaultParams(), nil)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("ComputeEnsemble not deterministic (-first +second):\n%s", diff)
	}
}

func TestPlotEnsemble(t *testing.T) {
	store := syntheticStore(t)
	req := syntheticRequest(testModels[0], refMeas)

	table, err := domain.PlotEnsemble(store, req, domain.DefaultParams(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		testModels[0], refMeas,
		domain.ColMean, domain.ColMeanMinusStd, domain.ColMeanPlusStd, domain.ColMedian,
		domain.ColReferenceValue,
	}, table.Names())

	rv, _ := table.Column(domain.ColReferenceValue)
	for _, v := range rv.Values {
		assert.Equal(t, synth.ReferenceValue, v)
	}
	ref, _ := table.Column(refMeas)
	for _, v := range ref.Values {
		assert.Equal(t, synth.ReferenceValue, v)
	}
}

func TestRegionReturnYears(t *testing.T) {
	store := syntheticStore(t)
	req := syntheticRequest(testModels...)

	for _, region := range domain.DefaultRegions() {
		got, err := domain.RegionReturnYears(store, req, region, domain.DefaultParams(), nil)
		require.NoError(t, err, region.Name)
		require.Len(t, got.Rows, 1)
		assert.Equal(t, region.Name, got.Rows[0].Region)
		assert.Equal(t, append(append([]string{}, testModels...),
			domain.ColMean, domain.ColMeanMinusStd, domain.ColMeanPlusStd, domain.ColMedian), got.Columns)
	}
}

func TestRegionReturnYears_UnknownModel(t *testing.T) {
	req := syntheticRequest("no-such-model")
	_, err := domain.RegionReturnYears(syntheticStore(t), req, domain.DefaultRegions()[0], domain.DefaultParams(), nil)
	require.ErrorIs(t, err, domain.ErrNoDataForModel)
	assert.Contains(t, err.Error(), "Antarctic(Oct)")
}
