package weather

import "errors"

var (
	// ErrInvalidRequest marks caller errors: no resolvable location,
	// malformed date. Mapped to HTTP 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstream marks provider failures: unreachable host, non-success
	// status, malformed or error-carrying payload. Mapped to HTTP 502.
	ErrUpstream = errors.New("upstream provider failure")

	// ErrEmptyHistory is returned when the provider succeeded but zero
	// usable hourly records remain after normalization. Mapped to 404.
	ErrEmptyHistory = errors.New("no hourly history for requested date")
)
