package pipeline

import (
	"context"
	"log/slog"

	"github.com/o3as/ensemble-service/internal/domain"
)

// RequestTransformer answers a queued request with an encoded result.
type RequestTransformer struct {
	processor *Processor
	logger    *slog.Logger
}

// NewTransformer creates a RequestTransformer backed by processor.
func NewTransformer(processor *Processor, logger *slog.Logger) *RequestTransformer {
	return &RequestTransformer{processor: processor, logger: logger}
}

func (t *RequestTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, kind, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	res, err := t.processor.Process(ctx, req, kind)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.logger.Debug("request answered", "request_id", res.RequestID, "kind", res.Kind, "offset", raw.Offset)
	return res.Encode()
}
