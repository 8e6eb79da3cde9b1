package domain

import "errors"

var (
	// ErrNoDataForModel is returned when a requested model is not part of the
	// loaded dataset.
	ErrNoDataForModel = errors.New("no data for model")

	// ErrInsufficientData marks numeric edge cases: empty selections,
	// degenerate latitude bands, spans too short to smooth, or a missing
	// reference value.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidRequest is returned by Request.Validate.
	ErrInvalidRequest = errors.New("invalid request")
)
