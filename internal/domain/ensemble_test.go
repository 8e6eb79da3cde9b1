package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuildEnsemble_UnionOfTimestamps(t *testing.T) {
	a := Series{Name: "a", Times: []time.Time{date(2000, 1), date(2000, 3)}, Values: []float64{1, 3}}
	b := Series{Name: "b", Times: []time.Time{date(2000, 2), date(2000, 3), date(2000, 4)}, Values: []float64{20, 30, 40}}

	ens := BuildEnsemble([]Series{a, b})

	assert.Equal(t, []time.Time{date(2000, 1), date(2000, 2), date(2000, 3), date(2000, 4)}, ens.Times)
	assert.Equal(t, []string{"a", "b"}, ens.Names())

	colA, ok := ens.Column("a")
	require.True(t, ok)
	assertFloats(t, []float64{1, nan, 3, nan}, colA.Values)

	colB, ok := ens.Column("b")
	require.True(t, ok)
	assertFloats(t, []float64{nan, 20, 30, 40}, colB.Values)
}

func TestBuildEnsemble_JoinOrderDoesNotChangeContent(t *testing.T) {
	a := Series{Name: "a", Times: []time.Time{date(2001, 5), date(1999, 1)}, Values: []float64{5, 1}}
	b := Series{Name: "b", Times: []time.Time{date(2000, 6)}, Values: []float64{6}}

	ab := BuildEnsemble([]Series{a, b})
	ba := BuildEnsemble([]Series{b, a})

	assert.Equal(t, ab.Times, ba.Times)
	for _, name := range []string{"a", "b"} {
		x, _ := ab.Column(name)
		y, _ := ba.Column(name)
		assertFloats(t, x.Values, y.Values)
	}
}

func TestBuildEnsemble_EveryInputTimestampHasARow(t *testing.T) {
	series := []Series{
		{Name: "a", Times: monthly(1990, 1992), Values: make([]float64, 36)},
		{Name: "b", Times: monthly(1991, 1995), Values: make([]float64, 60)},
		{Name: "c", Times: []time.Time{date(2010, 7)}, Values: []float64{1}},
	}
	ens := BuildEnsemble(series)

	rows := make(map[time.Time]bool, len(ens.Times))
	for _, ts := range ens.Times {
		rows[ts] = true
	}
	for _, s := range series {
		for _, ts := range s.Times {
			assert.True(t, rows[ts], "missing row for %s in %s", ts, s.Name)
		}
	}
	assert.Len(t, ens.Times, 6*12+1)
}

func TestSliceEnsemble_FailsOnUnknownModel(t *testing.T) {
	src := mapSource{"a": constModel(monthly(2000, 2000), []float64{0}, 1)}
	_, err := SliceEnsemble(src, []string{"a", "b"}, Selection{Begin: 2000, End: 2000, LatMin: -90, LatMax: 90}, nil)
	require.ErrorIs(t, err, ErrNoDataForModel)
}
