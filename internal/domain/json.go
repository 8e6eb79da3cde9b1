package domain

import (
	"encoding/json"
	"math"
	"time"
)

// curveJSON is one column of a table as a list of points. Missing values are
// encoded as null.
type curveJSON[X any] struct {
	Model string     `json:"model"`
	X     []X        `json:"x"`
	Y     []*float64 `json:"y"`
}

// MarshalJSON encodes the table as one {model, x, y} object per column with
// RFC 3339 timestamps on x.
func (t EnsembleTable) MarshalJSON() ([]byte, error) {
	x := make([]string, len(t.Times))
	for i, ts := range t.Times {
		x[i] = ts.UTC().Format(time.RFC3339)
	}
	curves := make([]curveJSON[string], len(t.Columns))
	for i, c := range t.Columns {
		curves[i] = curveJSON[string]{Model: c.Name, X: x, Y: nullable(c.Values)}
	}
	return json.Marshal(curves)
}

// MarshalJSON encodes the table as one {model, x, y} object per column with
// years on x.
func (t YearlyTable) MarshalJSON() ([]byte, error) {
	x := t.Years
	if x == nil {
		x = []int{}
	}
	curves := make([]curveJSON[int], len(t.Columns))
	for i, c := range t.Columns {
		curves[i] = curveJSON[int]{Model: c.Name, X: x, Y: nullable(c.Values)}
	}
	return json.Marshal(curves)
}

func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}
