package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Run("defaults and key as ID", func(t *testing.T) {
		raw := RawEvent{Key: []byte("req-1"), Value: []byte(`{"models":["a"," b ","a"],"lat_min":-20,"lat_max":20}`)}
		req, kind, err := ParseRequest(raw)
		require.NoError(t, err)

		assert.Equal(t, KindReturn, kind)
		assert.Equal(t, "req-1", req.ID)
		assert.Equal(t, []string{"a", "b"}, req.Models)
		assert.Equal(t, DefaultBeginYear, req.Begin)
		assert.Equal(t, DefaultRefMeas, req.RefMeas)
		assert.InDelta(t, -20.0, req.LatMin, 0)
	})

	t.Run("explicit ID and kind header", func(t *testing.T) {
		raw := RawEvent{
			Key:     []byte("key"),
			Value:   []byte(`{"id":"abc","models":["a"]}`),
			Headers: map[string]string{"kind": "plot"},
		}
		req, kind, err := ParseRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, "abc", req.ID)
		assert.Equal(t, KindPlot, kind)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := ParseRequest(RawEvent{Value: []byte(`{`)})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := ParseRequest(RawEvent{Value: []byte(`{"models":["a"]}`), Headers: map[string]string{"kind": "pdf"}})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("validation failure", func(t *testing.T) {
		_, _, err := ParseRequest(RawEvent{Value: []byte(`{"models":[]}`)})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestNewResult_UsesClock(t *testing.T) {
	frozen := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	r := NewResult("id", KindRaw)
	assert.Equal(t, frozen, r.GeneratedAt)
	assert.Equal(t, KindRaw, r.Kind)
}

func TestTableJSON(t *testing.T) {
	t.Run("yearly table encodes NaN as null", func(t *testing.T) {
		table := YearlyTable{Years: []int{2000, 2001}, Columns: []Column{{Name: "m", Values: []float64{1.5, nan}}}}
		data, err := json.Marshal(table)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"model":"m","x":[2000,2001],"y":[1.5,null]}]`, string(data))
	})

	t.Run("ensemble table uses RFC 3339 times", func(t *testing.T) {
		table := EnsembleTable{Times: []time.Time{date(2000, 2)}, Columns: []Column{{Name: "m", Values: []float64{nan}}}}
		data, err := json.Marshal(table)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"model":"m","x":["2000-02-01T00:00:00Z"],"y":[null]}]`, string(data))
	})

	t.Run("return years", func(t *testing.T) {
		table := ReturnYearTable{Columns: []string{"a", "b"}, Rows: []ReturnYearRow{{Region: "Global", Years: []*int{intPtr(2050), nil}}}}
		data, err := json.Marshal(table)
		require.NoError(t, err)
		assert.JSONEq(t, `{"columns":["a","b"],"rows":[{"region":"Global","years":[2050,null]}]}`, string(data))
	})

	t.Run("result carries only its table", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
		defer SetClock(nil)

		r := NewResult("r1", KindReturn)
		r.Return = &ReturnYearTable{Columns: []string{}, Rows: []ReturnYearRow{}}
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"request_id":"r1","kind":"return","generated_at":"2026-01-02T03:04:05Z","return":{"columns":[],"rows":[]}}`, string(data))
	})
}

func TestResult_Encode(t *testing.T) {
	r := Result{
		RequestID:   "req-9",
		Kind:        KindReturn,
		GeneratedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
		Return:      &ReturnYearTable{Columns: []string{"m"}, Rows: []ReturnYearRow{{Region: "Global", Years: []*int{nil}}}},
	}

	out, err := r.Encode()
	require.NoError(t, err)

	assert.Equal(t, []byte("req-9"), out.Key)
	assert.Equal(t, map[string]string{
		"request_id":   "req-9",
		"kind":         "return",
		"generated_at": "2026-05-06T07:08:09Z",
	}, out.Headers)

	var decoded struct {
		RequestID string          `json:"request_id"`
		Return    ReturnYearTable `json:"return"`
	}
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, "req-9", decoded.RequestID)
	assert.Equal(t, "Global", decoded.Return.Rows[0].Region)
	assert.Nil(t, decoded.Return.Rows[0].Years[0])
}
