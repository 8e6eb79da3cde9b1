package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Kind names the output a request asks for.
type Kind string

const (
	KindRaw    Kind = "raw"
	KindPlot   Kind = "plot"
	KindReturn Kind = "return"
)

// ParseKind maps a header or path value to a Kind. Empty means KindReturn.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindReturn:
		return KindReturn, nil
	case KindRaw, KindPlot:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, s)
	}
}

// RawEvent represents an unprocessed message from the request topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Result is one computed answer. Exactly one of the table fields is set,
// matching Kind.
type Result struct {
	RequestID   string           `json:"request_id"`
	Kind        Kind             `json:"kind"`
	GeneratedAt time.Time        `json:"generated_at"`
	Raw         *EnsembleTable   `json:"raw,omitempty"`
	Plot        *YearlyTable     `json:"plot,omitempty"`
	Return      *ReturnYearTable `json:"return,omitempty"`
}

// NewResult stamps a result with the current clock time.
func NewResult(requestID string, kind Kind) Result {
	return Result{RequestID: requestID, Kind: kind, GeneratedAt: Now()}
}

// ParseRequest decodes a request message over DefaultRequest and validates
// it. A missing request ID is taken from the message key.
func ParseRequest(raw RawEvent) (Request, Kind, error) {
	kind, err := ParseKind(raw.Headers["kind"])
	if err != nil {
		return Request{}, "", err
	}

	req := DefaultRequest()
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return Request{}, "", fmt.Errorf("%w: unmarshal request: %v", ErrInvalidRequest, err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if err := req.Validate(); err != nil {
		return Request{}, "", err
	}
	return req, kind, nil
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Encode serializes the result as JSON keyed by its request ID.
func (r Result) Encode() (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize result %s: %w", r.RequestID, err)
	}
	return OutputEvent{
		Key:   []byte(r.RequestID),
		Value: data,
		Headers: map[string]string{
			"request_id":   r.RequestID,
			"kind":         string(r.Kind),
			"generated_at": r.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}
