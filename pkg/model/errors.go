package model

import "errors"

// Pipeline error taxonomy. Lower stages fail fast; the session surfaces the
// first failure and stays in its last valid state.
var (
	// ErrSchemaMismatch is returned when two tracks loaded into one session
	// declare different skeleton schemas.
	ErrSchemaMismatch = errors.New("skeleton schema mismatch between tracks")

	// ErrNonMonotonicTimestamp is returned at construction when a track's
	// timestamps decrease.
	ErrNonMonotonicTimestamp = errors.New("track timestamps are not monotonically non-decreasing")

	// ErrInsufficientSignal is returned when the detector's reference joint is
	// below the confidence threshold for too many frames to trust detection.
	ErrInsufficientSignal = errors.New("reference joint signal is too unreliable for cycle detection")

	// ErrNoOverlap is returned when either track has zero detected cycles, so
	// no aligned phase range exists.
	ErrNoOverlap = errors.New("no overlapping gait cycles between tracks")

	// ErrSessionNotReady is returned for queries issued before the pipeline has
	// completed. Always surfaced, never defaulted.
	ErrSessionNotReady = errors.New("comparison session is not ready")
)
