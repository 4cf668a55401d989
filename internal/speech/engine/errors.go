package engine

import "errors"

// Stable error kinds surfaced across the service boundary. Callers rely on
// these to tell a retryable inference failure apart from bad input or a
// missing session, so wrap them rather than inventing new sentinels.
var (
	// ErrModelUnavailable means the underlying model never loaded or its
	// files went missing. Permanent until the model is provisioned.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidAudio means the caller sent a malformed audio buffer.
	// Never retried internally.
	ErrInvalidAudio = errors.New("invalid audio")

	// ErrSessionNotFound means the caller referenced a session id that was
	// never started or has already ended.
	ErrSessionNotFound = errors.New("session not found")

	// ErrClassifierFailure is a transient inference error. Retry policy is
	// the caller's decision.
	ErrClassifierFailure = errors.New("classifier failure")
)
