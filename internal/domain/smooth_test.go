package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxcar(t *testing.T) {
	t.Run("mirror padding at both edges", func(t *testing.T) {
		// padded: 3 2 | 1 2 3 4 | 3 2
		got := boxcar([]float64{1, 2, 3, 4}, 3)
		assertFloats(t, []float64{5.0 / 3, 2, 3, 10.0 / 3}, got)
	})

	t.Run("even window averages each sample with its left neighbour", func(t *testing.T) {
		// padded: 2 | 1 2 3 | 2
		got := boxcar([]float64{1, 2, 3}, 2)
		assertFloats(t, []float64{1.5, 1.5, 2.5}, got)
	})

	t.Run("window of one is identity", func(t *testing.T) {
		got := boxcar([]float64{4, 8, 15}, 1)
		assertFloats(t, []float64{4, 8, 15}, got)
	})

	t.Run("constant signal is unchanged", func(t *testing.T) {
		x := make([]float64, 30)
		for i := range x {
			x[i] = 0.5
		}
		got := boxcar(x, 10)
		assertFloats(t, x, got)
	})
}

func TestSmoothBoxcar_PreservesSpan(t *testing.T) {
	values := nanSlice(40)
	for i := 5; i < 35; i++ {
		values[i] = math.Sin(float64(i))
	}
	values[12] = nan
	values[20] = nan

	in := YearlyTable{Years: years(1960, 1999), Columns: []Column{{Name: "m", Values: values}}}
	out, err := SmoothBoxcar(in, DefaultBoxcarWindow)
	require.NoError(t, err)

	got := out.Columns[0].Values
	for i, v := range got {
		if i < 5 || i >= 35 {
			assert.True(t, math.IsNaN(v), "index %d outside span must stay NaN", i)
		} else {
			assert.False(t, math.IsNaN(v), "index %d inside span must be smoothed", i)
		}
	}
	assert.True(t, math.IsNaN(in.Columns[0].Values[12]), "input must not be modified")
}

func TestSmoothBoxcar_Errors(t *testing.T) {
	short := YearlyTable{Years: years(2000, 2004), Columns: []Column{{Name: "m", Values: []float64{1, 2, 3, 4, 5}}}}

	_, err := SmoothBoxcar(short, 10)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = SmoothBoxcar(short, 0)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestSmoothBoxcar_SkipsEmptyColumns(t *testing.T) {
	in := YearlyTable{Years: years(2000, 2002), Columns: []Column{{Name: "empty", Values: nanSlice(3)}}}
	out, err := SmoothBoxcar(in, 10)
	require.NoError(t, err)
	assertFloats(t, nanSlice(3), out.Columns[0].Values)
}
