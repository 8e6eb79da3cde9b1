package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o3as/ensemble-service/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("req-1"),
		Value:     []byte(`{"models":["a"]}`),
		Topic:     "o3-return-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte("plot")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.JSONEq(t, `{"models":["a"]}`, string(raw.Value))
	assert.Equal(t, "o3-return-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "plot", raw.Headers["kind"])
	assert.Nil(t, raw.Commit)
}

func TestToMessage(t *testing.T) {
	now := time.Date(2026, 4, 26, 15, 10, 0, 0, time.UTC)
	res := domain.Result{
		RequestID:   "req-1",
		Kind:        domain.KindReturn,
		GeneratedAt: now,
		Return:      &domain.ReturnYearTable{Columns: []string{"m"}, Rows: []domain.ReturnYearRow{}},
	}
	out, err := res.Encode()
	require.NoError(t, err)

	msg := toMessage(out)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"kind":"return"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "generated_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "kind", msg.Headers[1].Key)
	assert.Equal(t, []byte("return"), msg.Headers[1].Value)
	assert.Equal(t, "request_id", msg.Headers[2].Key)
}
